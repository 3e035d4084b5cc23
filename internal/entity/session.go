package entity

// Session is the authenticated identity returned by the login endpoint.
type Session struct {
	Token       string `json:"token"`
	PlayerID    string `json:"player_id"`
	AccountID   string `json:"account_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

func (that *Session) IsValid() bool {
	return that != nil && that.Token != ""
}
