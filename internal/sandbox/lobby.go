package sandbox

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rocketscienceinc/holdem-client/internal/apperror"
	"github.com/rocketscienceinc/holdem-client/internal/entity"
)

const tokenLifetime = 24 * time.Hour

var (
	ErrUserExists         = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnknownTicket      = errors.New("unknown or used ticket")
	ErrNotAtTable         = errors.New("not at this table")
	ErrNotSeated          = errors.New("not seated")
	ErrInsufficientFunds  = errors.New("insufficient funds")
)

type account struct {
	username    string
	email       string
	password    string
	playerID    string
	accountID   string
	displayName string
	wallet      decimal.Decimal
}

// Lobby is the in-memory state of the sandbox server: accounts, tickets and
// tables. It seats players and moves chips; it never deals.
type Lobby struct {
	secret     []byte
	startChips decimal.Decimal

	mu       sync.Mutex
	accounts map[string]*account
	tickets  map[string]string
	tables   map[string]*entity.TableState
	members  map[string]map[string]bool
}

func NewLobby(secret string, startChips int64) *Lobby {
	return &Lobby{
		secret:     []byte(secret),
		startChips: decimal.NewFromInt(startChips),
		accounts:   make(map[string]*account),
		tickets:    make(map[string]string),
		tables:     make(map[string]*entity.TableState),
		members:    make(map[string]map[string]bool),
	}
}

func (that *Lobby) Register(username, email, password string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.accounts[username]; ok {
		return ErrUserExists
	}

	that.accounts[username] = &account{
		username:    username,
		email:       email,
		password:    password,
		playerID:    uuid.NewString(),
		accountID:   uuid.NewString(),
		displayName: username,
		wallet:      that.startChips,
	}

	return nil
}

// Login - checks the password and signs a session token.
func (that *Lobby) Login(username, password string) (*entity.Session, error) {
	that.mu.Lock()
	acc, ok := that.accounts[username]
	that.mu.Unlock()

	if !ok || acc.password != password {
		return nil, ErrInvalidCredentials
	}

	claims := jwt.RegisteredClaims{
		Subject:   acc.username,
		ID:        acc.playerID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(that.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &entity.Session{
		Token:       token,
		PlayerID:    acc.playerID,
		AccountID:   acc.accountID,
		Username:    acc.username,
		DisplayName: acc.displayName,
	}, nil
}

// IssueTicket - verifies the session token and returns a single-use ticket.
func (that *Lobby) IssueTicket(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return that.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.accounts[claims.Subject]; !ok {
		return "", ErrInvalidToken
	}

	ticket := uuid.NewString()
	that.tickets[ticket] = claims.Subject

	return ticket, nil
}

// RedeemTicket - consumes a ticket and returns its username.
func (that *Lobby) RedeemTicket(ticket string) (string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	username, ok := that.tickets[ticket]
	if !ok {
		return "", ErrUnknownTicket
	}

	delete(that.tickets, ticket)

	return username, nil
}

func (that *Lobby) Balance(username string) decimal.Decimal {
	that.mu.Lock()
	defer that.mu.Unlock()

	if acc, ok := that.accounts[username]; ok {
		return acc.wallet
	}

	return decimal.Zero
}

// Join - adds username to the table, creating the table on first join.
func (that *Lobby) Join(username, tableID string) entity.TableState {
	that.mu.Lock()
	defer that.mu.Unlock()

	table, ok := that.tables[tableID]
	if !ok {
		table = &entity.TableState{
			TableID:        tableID,
			Street:         entity.StreetWaiting,
			CommunityCards: []entity.Card{},
			DealerSeat:     entity.NoSeat,
			ActingSeat:     entity.NoSeat,
			SmallBlind:     10,
			BigBlind:       20,
			MinBet:         20,
		}
		that.tables[tableID] = table
		that.members[tableID] = make(map[string]bool)
	}

	that.members[tableID][username] = true

	return *table.Clone()
}

func (that *Lobby) Leave(username, tableID string) (entity.TableState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	table, err := that.memberTable(username, tableID)
	if err != nil {
		return entity.TableState{}, err
	}

	that.unseat(table, username)
	delete(that.members[tableID], username)

	return *table.Clone(), nil
}

func (that *Lobby) SitDown(username, tableID string, seatNo int) (entity.TableState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	table, err := that.memberTable(username, tableID)
	if err != nil {
		return entity.TableState{}, err
	}

	if table.SeatOf(username) != entity.NoSeat {
		return *table.Clone(), nil
	}

	acc := that.accounts[username]
	player := &entity.Player{
		ID:      acc.playerID,
		Name:    username,
		SeatIdx: seatNo,
		Status:  entity.StatusSittingOut,
	}

	if err = table.Sit(player); err != nil {
		return entity.TableState{}, err
	}

	return *table.Clone(), nil
}

func (that *Lobby) StandUp(username, tableID string) (entity.TableState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	table, err := that.memberTable(username, tableID)
	if err != nil {
		return entity.TableState{}, err
	}

	if table.SeatOf(username) == entity.NoSeat {
		return entity.TableState{}, ErrNotSeated
	}

	that.unseat(table, username)

	return *table.Clone(), nil
}

// BuyIn - moves amount from the wallet onto the player's stack.
func (that *Lobby) BuyIn(username, tableID string, amount int64) (entity.TableState, decimal.Decimal, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	table, err := that.memberTable(username, tableID)
	if err != nil {
		return entity.TableState{}, decimal.Zero, err
	}

	player, ok := table.PlayerAt(table.SeatOf(username))
	if !ok {
		return entity.TableState{}, decimal.Zero, ErrNotSeated
	}

	acc := that.accounts[username]
	chips := decimal.NewFromInt(amount)
	if amount <= 0 || acc.wallet.LessThan(chips) {
		return entity.TableState{}, acc.wallet, ErrInsufficientFunds
	}

	acc.wallet = acc.wallet.Sub(chips)
	player.Chips += amount
	player.Status = entity.StatusPlaying

	return *table.Clone(), acc.wallet, nil
}

// CashOut - returns the whole stack to the wallet.
func (that *Lobby) CashOut(username, tableID string) (entity.TableState, decimal.Decimal, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	table, err := that.memberTable(username, tableID)
	if err != nil {
		return entity.TableState{}, decimal.Zero, err
	}

	player, ok := table.PlayerAt(table.SeatOf(username))
	if !ok {
		return entity.TableState{}, decimal.Zero, ErrNotSeated
	}

	acc := that.accounts[username]
	acc.wallet = acc.wallet.Add(decimal.NewFromInt(player.Chips))
	player.Chips = 0
	player.Status = entity.StatusSittingOut

	return *table.Clone(), acc.wallet, nil
}

// Members lists the usernames that joined tableID.
func (that *Lobby) Members(tableID string) []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	names := make([]string, 0, len(that.members[tableID]))
	for name := range that.members[tableID] {
		names = append(names, name)
	}

	return names
}

func (that *Lobby) memberTable(username, tableID string) (*entity.TableState, error) {
	table, ok := that.tables[tableID]
	if !ok || !that.members[tableID][username] {
		return nil, fmt.Errorf("%w: %s", ErrNotAtTable, tableID)
	}

	return table, nil
}

// unseat returns the player's stack to the wallet and frees the seat.
func (that *Lobby) unseat(table *entity.TableState, username string) {
	seat := table.SeatOf(username)

	player, ok := table.PlayerAt(seat)
	if !ok {
		return
	}

	acc := that.accounts[username]
	acc.wallet = acc.wallet.Add(decimal.NewFromInt(player.Chips))
	table.Seats[seat] = entity.EmptySeat()
}

// IsSeatError reports whether err came from an invalid or taken seat.
func IsSeatError(err error) bool {
	return errors.Is(err, apperror.ErrInvalidSeat) || errors.Is(err, entity.ErrSeatTaken)
}
