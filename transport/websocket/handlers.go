package websocket

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/holdem-client/internal/protocol"
)

var (
	errTableRequired = errors.New("table_id is required")
	errSeatRequired  = errors.New("seat_no is required")
	errNoHand        = errors.New("No hand in progress")
)

func (that *Server) handleJoinTable(cl *client, req protocol.Request) error {
	if req.TableID == "" {
		return errTableRequired
	}

	table := that.lobby.Join(cl.username, req.TableID)

	if err := that.send(cl, protocol.EventJoinTableSuccess, map[string]any{"table_id": req.TableID}); err != nil {
		return err
	}

	that.broadcastTable(table)

	return nil
}

func (that *Server) handleLeaveTable(cl *client, req protocol.Request) error {
	table, err := that.lobby.Leave(cl.username, req.TableID)
	if err != nil {
		return fmt.Errorf("could not leave: %w", err)
	}

	if err = that.send(cl, protocol.EventLeaveTableSuccess, map[string]any{"table_id": req.TableID}); err != nil {
		return err
	}

	that.broadcastTable(table)

	return nil
}

func (that *Server) handleSitDown(cl *client, req protocol.Request) error {
	if req.SeatNo == nil {
		return errSeatRequired
	}

	table, err := that.lobby.SitDown(cl.username, req.TableID, *req.SeatNo)
	if err != nil {
		return fmt.Errorf("could not sit down: %w", err)
	}

	payload := map[string]any{"table_id": req.TableID, "seat_no": table.SeatOf(cl.username)}
	if err = that.send(cl, protocol.EventSitDownSuccess, payload); err != nil {
		return err
	}

	that.broadcastTable(table)

	return nil
}

func (that *Server) handleStandUp(cl *client, req protocol.Request) error {
	table, err := that.lobby.StandUp(cl.username, req.TableID)
	if err != nil {
		return fmt.Errorf("could not stand up: %w", err)
	}

	if err = that.send(cl, protocol.EventStandUpSuccess, map[string]any{"table_id": req.TableID}); err != nil {
		return err
	}

	that.broadcastTable(table)

	return nil
}

func (that *Server) handleBuyIn(cl *client, req protocol.Request) error {
	table, balance, err := that.lobby.BuyIn(cl.username, req.TableID, req.Amount)
	if err != nil {
		return fmt.Errorf("could not buy in: %w", err)
	}

	payload := map[string]any{"wallet_balance": balance, "table_id": req.TableID, "chips": req.Amount}
	if err = that.send(cl, protocol.EventBuyInSuccess, payload); err != nil {
		return err
	}

	that.broadcastTable(table)

	return nil
}

func (that *Server) handleCashOut(cl *client, req protocol.Request) error {
	table, balance, err := that.lobby.CashOut(cl.username, req.TableID)
	if err != nil {
		return fmt.Errorf("could not cash out: %w", err)
	}

	payload := map[string]any{"wallet_balance": balance, "table_id": req.TableID}
	if err = that.send(cl, protocol.EventCashOutSuccess, payload); err != nil {
		return err
	}

	that.broadcastTable(table)

	return nil
}

func (that *Server) handleGetBalance(cl *client, _ protocol.Request) error {
	return that.send(cl, protocol.EventBalanceInfo, map[string]any{"wallet_balance": that.lobby.Balance(cl.username)})
}

// handleGameAction - the sandbox never deals, so there is nothing to act on.
func (that *Server) handleGameAction(_ *client, _ protocol.Request) error {
	return errNoHand
}
