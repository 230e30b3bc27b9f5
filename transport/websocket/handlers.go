package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

func (that *Server) handleNewGame(ctx context.Context, msg *Message, cl *client) error {
	log := that.logger.With("method", "handleNewGame")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.ChannelKey == "" {
		log.Error("channel key is missing in payload")
		return that.sendErrorResponse(cl, msg.Action, errors.New("channel_key is required"))
	}
	if len(payloadReq.Participants) == 0 {
		log.Error("participants are missing in payload")
		return that.sendErrorResponse(cl, msg.Action, errors.New("participants are required"))
	}

	that.registerConnection(payloadReq.PlayerID, cl)

	snapshot, err := that.game.CreateSession(ctx, payloadReq.ChannelKey, payloadReq.GameKind, payloadReq.Participants, payloadReq.Options)
	if err != nil {
		log.Error("failed to create session", "channel", payloadReq.ChannelKey, "error", err)
		return that.sendErrorResponse(cl, msg.Action, err)
	}

	log.Info("session created", "channel", payloadReq.ChannelKey, "kind", snapshot.Kind)
	that.broadcast(msg.Action, snapshot)

	return nil
}

func (that *Server) handleMove(ctx context.Context, msg *Message, cl *client) error {
	log := that.logger.With("method", "handleMove")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.Move == nil {
		log.Error("move is missing in payload")
		return that.sendErrorResponse(cl, msg.Action, errors.New("move is required"))
	}

	that.registerConnection(payloadReq.PlayerID, cl)

	snapshot, err := that.game.SubmitMove(ctx, payloadReq.ChannelKey, payloadReq.PlayerID, *payloadReq.Move)
	if err != nil {
		return that.sendErrorResponse(cl, msg.Action, err)
	}

	that.broadcast(msg.Action, snapshot)
	if snapshot.IsFinished() {
		log.Info("game finished", "channel", snapshot.ChannelKey, "reason", snapshot.Result.Reason)
	}

	return nil
}

func (that *Server) handlePass(ctx context.Context, msg *Message, cl *client) error {
	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	that.registerConnection(payloadReq.PlayerID, cl)

	snapshot, err := that.game.Pass(ctx, payloadReq.ChannelKey, payloadReq.PlayerID)
	if err != nil {
		return that.sendErrorResponse(cl, msg.Action, err)
	}

	that.broadcast(msg.Action, snapshot)

	return nil
}

func (that *Server) handleRoll(ctx context.Context, msg *Message, cl *client) error {
	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	that.registerConnection(payloadReq.PlayerID, cl)

	snapshot, err := that.game.RollDice(ctx, payloadReq.ChannelKey, payloadReq.PlayerID)
	if err != nil {
		return that.sendErrorResponse(cl, msg.Action, err)
	}

	that.broadcast(msg.Action, snapshot)

	return nil
}

func (that *Server) handleResign(ctx context.Context, msg *Message, cl *client) error {
	log := that.logger.With("method", "handleResign")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	that.registerConnection(payloadReq.PlayerID, cl)

	snapshot, err := that.game.Resign(ctx, payloadReq.ChannelKey, payloadReq.PlayerID)
	if err != nil {
		return that.sendErrorResponse(cl, msg.Action, err)
	}

	log.Info("player resigned", "channel", payloadReq.ChannelKey, "playerID", payloadReq.PlayerID)
	that.broadcast(msg.Action, snapshot)

	return nil
}

func (that *Server) handleLeave(ctx context.Context, msg *Message, cl *client) error {
	log := that.logger.With("method", "handleLeave")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	snapshot, err := that.game.EndSession(ctx, payloadReq.ChannelKey)
	if err != nil {
		return that.sendErrorResponse(cl, msg.Action, err)
	}

	log.Info("session ended", "channel", payloadReq.ChannelKey)
	that.broadcast(msg.Action, snapshot)

	return nil
}

func (that *Server) handleState(ctx context.Context, msg *Message, cl *client) error {
	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	that.registerConnection(payloadReq.PlayerID, cl)

	snapshot, err := that.game.GetSnapshot(ctx, payloadReq.ChannelKey)
	if err != nil {
		return that.sendErrorResponse(cl, msg.Action, err)
	}

	return cl.send(msg.Action, Payload{ChannelKey: snapshot.ChannelKey, Session: snapshot})
}
