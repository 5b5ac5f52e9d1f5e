package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math/rand"
	"strconv"
	"time"

	"blokus/internal/app"
	"blokus/internal/bot"
	"blokus/internal/config"
	"blokus/internal/domain"
	"blokus/internal/ports"
	"blokus/internal/render"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats         [4]string `json:"seats"`           // Array of user IDs, empty string means seat is empty
	OwnerSeat     int       `json:"owner_seat"`      // Seat index of the match owner
	LastStartSeat int       `json:"last_start_seat"` // Engine seat that opened the last game
	Tick          int64     `json:"tick"`            // Current tick for turn-based timers
	Mode          string    `json:"mode"`            // Board mode requested for this lobby
	Tier          string    `json:"tier"`            // Bet tier for settlement

	Presences map[string]runtime.Presence `json:"-"` // Map UserId -> Presence for targeted messaging
	App       *app.Service                `json:"-"` // Blokus app service with game logic
	Game      *domain.Game                `json:"-"` // Current active game state (nil if in lobby)
	GameSeats []string                    `json:"game_seats"` // Engine seat -> user ID for the running game

	TurnSeat        int   `json:"turn_seat"`         // Engine seat the turn timer is tracking
	TurnStartedTick int64 `json:"turn_started_tick"` // Tick when that seat's turn began
	TurnDuration    int   `json:"turn_duration"`     // Seconds before a turn is forced

	BotsEnabled          bool                  `json:"bots_enabled"`            // Whether AI players are allowed
	BotMinDelay          int                   `json:"bot_min_delay"`           // Min seconds a bot waits
	BotMaxDelay          int                   `json:"bot_max_delay"`           // Max seconds a bot waits
	BotAutoFillDelay     int                   `json:"bot_auto_fill_delay"`     // Seconds before auto-filling with bots
	BotWaitUntil         int64                 `json:"bot_wait_until"`          // Tick when the acting bot should move
	LastSinglePlayerTick int64                 `json:"last_single_player_tick"` // Tick when a solo human started waiting
	Bots                 map[string]*bot.Agent `json:"-"`                       // Active bot agents

	Economy   ports.EconomyPort   `json:"-"` // Interface to Nakama wallet
	Snapshots ports.SnapshotStore `json:"-"` // Final board render storage
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !bot.IsBot(seat) {
			count++
		}
	}
	return count
}

// inLobby reports whether the match is between games.
func (ms *MatchState) inLobby() bool {
	return ms.Game == nil || ms.Game.Status != domain.StatusInProgress
}

// engineSeatOf maps a user to the seat index inside the running game, -1 when
// the user is not playing.
func (ms *MatchState) engineSeatOf(userID string) int {
	for i, uid := range ms.GameSeats {
		if uid == userID {
			return i
		}
	}
	return -1
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userId := seats[seatIndex]
	return userId != "" && !bot.IsBot(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !bot.IsBot(userId) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}

	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	state := &MatchState{
		Tick:          time.Now().Unix(),
		Presences:     make(map[string]runtime.Presence),
		App:           app.NewService(nil),
		OwnerSeat:     -1,
		LastStartSeat: -1,
		Mode:          config.GetDefaultMode(),
		Bots:          make(map[string]*bot.Agent),
		Economy:       NewNakamaEconomyAdapter(nk),
		Snapshots:     NewNakamaSnapshotAdapter(nk),
	}

	if mode, ok := params["mode"].(string); ok && mode != "" {
		state.Mode = mode
	}
	if tier, ok := params["tier"].(string); ok {
		state.Tier = tier
	}

	// Environment overrides for bot pacing.
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["blokus_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["blokus_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["blokus_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["blokus_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}

	if state.BotMinDelay == 0 {
		state.BotMinDelay = config.GetBotThinkSeconds()
	}
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay + 2
	}
	if state.BotAutoFillDelay == 0 {
		state.BotAutoFillDelay = 5
		if c := config.GetGameConfig(); c != nil && c.BotAutoFillDelaySeconds > 0 {
			state.BotAutoFillDelay = c.BotAutoFillDelaySeconds
		}
	}
	if c := config.GetGameConfig(); c != nil && c.TurnDurationSeconds > 0 {
		state.TurnDuration = c.TurnDurationSeconds
	}

	labelBytes, err := json.Marshal(MatchLabel{
		Open:  state.GetOpenSeatsCount(),
		State: "lobby",
		Game:  "blokus",
		Mode:  state.Mode,
	})
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Allow join if there is an empty seat OR a bot to replace (if game hasn't started)
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if matchState.inLobby() {
			for _, seat := range matchState.Seats {
				if bot.IsBot(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		// Assign seat: empty seats first, then bots while still in the lobby.
		assigned := false
		for i, seatUserId := range matchState.Seats {
			if seatUserId == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}

		if !assigned && matchState.inLobby() {
			for i, seatUserId := range matchState.Seats {
				if bot.IsBot(seatUserId) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, p.GetUserId(), i)
					delete(matchState.Bots, seatUserId)
					matchState.Seats[i] = p.GetUserId()
					assigned = true
					break
				}
			}
		}

		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", p.GetUserId())
			continue
		}
	}

	// Ensure owner seat is assigned to a human player only.
	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	ownerLeft := false
	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		// Leaving mid-game resigns the seat so play can continue.
		if matchState.Game != nil && matchState.Game.Status == domain.StatusInProgress {
			if engineSeat := matchState.engineSeatOf(p.GetUserId()); engineSeat >= 0 {
				events, err := matchState.App.ResignSeat(matchState.Game, engineSeat)
				if err != nil {
					logger.Warn("MatchLeave: Failed to resign seat %d: %v", engineSeat, err)
				}
				for _, ev := range events {
					mh.broadcastEvent(ctx, matchState, dispatcher, logger, ev)
				}
			}
		}

		for i, seatUserId := range matchState.Seats {
			if seatUserId == p.GetUserId() {
				matchState.Seats[i] = ""
				logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), i)

				if matchState.OwnerSeat == i {
					ownerLeft = true
				}
				break
			}
		}
	}

	newOwnerSeat := findFirstHumanSeat(matchState.Seats[:])
	if newOwnerSeat != matchState.OwnerSeat {
		matchState.OwnerSeat = newOwnerSeat
		if newOwnerSeat >= 0 {
			logger.Debug("MatchLeave: Owner set to human seat %d.", newOwnerSeat)
		} else if ownerLeft {
			logger.Debug("MatchLeave: Owner left and no human owner is available.")
		}
	}

	if shouldTerminateNoHumans(matchState.Seats[:]) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpPlacePiece:
			mh.handlePlacePiece(ctx, matchState, dispatcher, logger, msg)
		case OpPassTurn:
			mh.handlePassTurn(ctx, matchState, dispatcher, logger, msg)
		case OpRequestNewGame:
			mh.handleRequestNewGame(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processTurnTimer(ctx, matchState, dispatcher, logger)

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	return matchState
}

// processTurnTimer forces a move for a human seat that has been idle for
// the full turn duration: a random legal placement when one exists, a
// pass otherwise. Bot pacing has its own timer.
func (mh *matchHandler) processTurnTimer(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.TurnDuration <= 0 || state.Game == nil || state.Game.Status != domain.StatusInProgress {
		return
	}

	current := state.Game.Current
	if current != state.TurnSeat {
		state.TurnSeat = current
		state.TurnStartedTick = state.Tick
		return
	}
	if current >= len(state.GameSeats) || bot.IsBot(state.GameSeats[current]) {
		return
	}
	if state.Tick-state.TurnStartedTick < int64(state.TurnDuration) {
		return
	}

	userID := state.GameSeats[current]
	logger.Info("processTurnTimer: Seat %d (%s) timed out, forcing a move.", current, userID)

	var events []app.Event
	var err error
	moves := state.Game.ValidMoves(current)
	if len(moves) > 0 {
		m := moves[rand.Intn(len(moves))]
		events, err = state.App.PlacePiece(state.Game, current, m.Piece, m.Orientation, m.Row, m.Col)
	} else {
		events, err = state.App.PassTurn(state.Game, current)
	}
	if err != nil {
		logger.Error("processTurnTimer: Forced action for seat %d failed: %v", current, err)
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill lobby with bots if there's only one human player after delay
	if state.inLobby() {
		humanCount := state.GetHumanPlayerCount()
		if humanCount == 1 {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
				logger.Debug("processBots: Single player detected, starting auto-fill timer.")
			}

			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				added := false
				for i, seat := range state.Seats {
					if seat == "" {
						identity := bot.GetBotIdentity(i)
						botID := identity.UserID
						state.Seats[i] = botID

						agent, err := bot.NewAgent(botID)
						if err != nil {
							logger.Error("Failed to create bot agent for %s: %v", botID, err)
						} else {
							state.Bots[botID] = agent
						}

						logger.Info("processBots: Added bot %s (%s) to seat %d", identity.Username, botID, i)
						added = true
					}
				}
				if added {
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastMatchState(state, dispatcher, logger)
				}
				state.LastSinglePlayerTick = 0
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
	}

	// 2. Handle bot turns in-game
	if state.Game != nil && state.Game.Status == domain.StatusInProgress {
		currentSeat := state.Game.Current
		if currentSeat < 0 || currentSeat >= len(state.GameSeats) {
			return
		}
		currentUserID := state.GameSeats[currentSeat]

		if bot.IsBot(currentUserID) {
			if state.BotWaitUntil == 0 {
				delay := rand.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
				state.BotWaitUntil = state.Tick + int64(delay)
				logger.Debug("processBots: Bot %s (seat %d) will act at tick %d (current %d)", currentUserID, currentSeat, state.BotWaitUntil, state.Tick)
			}

			if state.Tick >= state.BotWaitUntil {
				state.BotWaitUntil = 0

				agent, exists := state.Bots[currentUserID]
				if !exists {
					var err error
					agent, err = bot.NewAgent(currentUserID)
					if err != nil {
						logger.Error("processBots: Failed to create fallback agent: %v", err)
						return
					}
					state.Bots[currentUserID] = agent
				}

				move, err := agent.PlayAtSeat(state.Game, currentSeat)
				if err != nil {
					logger.Warn("processBots: Bot %s move calculation degraded: %v", currentUserID, err)
				}

				var events []app.Event
				if move.Pass {
					events, err = state.App.PassTurn(state.Game, currentSeat)
					if errors.Is(err, app.ErrMustPlay) {
						// A degraded strategy may not stall the match.
						if moves := state.Game.ValidMoves(currentSeat); len(moves) > 0 {
							m := moves[rand.Intn(len(moves))]
							events, err = state.App.PlacePiece(state.Game, currentSeat, m.Piece, m.Orientation, m.Row, m.Col)
						}
					}
				} else {
					events, err = state.App.PlacePiece(state.Game, currentSeat, move.Piece, move.Orientation, move.Row, move.Col)
				}
				if err != nil {
					logger.Error("processBots: Bot %s (seat %d) action rejected: %v", currentUserID, currentSeat, err)
					return
				}
				for _, ev := range events {
					mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
				}
			}
		} else {
			state.BotWaitUntil = 0
		}
	}
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	var playerStates []PlayerState
	for i, userId := range state.Seats {
		if userId == "" {
			continue
		}

		displayName := userId
		if p, exists := state.Presences[userId]; exists {
			displayName = p.GetUsername()
		} else if name := bot.GetBotUsername(userId); name != "" {
			displayName = name
		}

		piecesRemaining := 0
		squaresRemaining := 0
		if state.Game != nil {
			if seat := state.engineSeatOf(userId); seat >= 0 {
				p := state.Game.PlayerAt(seat)
				piecesRemaining = p.PieceCount()
				squaresRemaining = p.SquaresRemaining()
			}
		}

		playerStates = append(playerStates, PlayerState{
			UserID:           userId,
			Seat:             i,
			IsOwner:          i == state.OwnerSeat,
			PiecesRemaining:  piecesRemaining,
			SquaresRemaining: squaresRemaining,
			DisplayName:      displayName,
		})
	}

	snapshot := MatchStateSnapshot{
		Seats:     state.Seats[:],
		OwnerSeat: state.OwnerSeat,
		Tick:      state.Tick,
		Players:   playerStates,
	}
	bytes, err := json.Marshal(snapshot)
	if err != nil {
		logger.Error("broadcastMatchState: marshal failed: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpPlayerJoined, bytes, nil, nil, true)
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := -1
	for i, seatUserId := range state.Seats {
		if seatUserId == senderID {
			senderSeat = i
			break
		}
	}

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if state.Game != nil && state.Game.Status == domain.StatusInProgress {
		logger.Warn("StartGame: Game already in progress.")
		return
	}

	var request StartGameRequest
	if len(msg.GetData()) > 0 {
		if err := json.Unmarshal(msg.GetData(), &request); err != nil {
			logger.Warn("StartGame: Invalid request from %s: %v", senderID, err)
			return
		}
	}

	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		return
	}

	activeCount := state.GetOccupiedSeatCount()
	if activeCount < app.MinPlayersToStartGame {
		logger.Warn("StartGame: Cannot start with %d players. Need at least %d.", activeCount, app.MinPlayersToStartGame)
		return
	}

	if request.Mode != "" {
		state.Mode = request.Mode
	}
	if request.Tier != "" {
		state.Tier = request.Tier
	}

	// Occupied match seats become engine seats in order.
	seats := make([]string, 0, activeCount)
	names := make([]string, 0, activeCount)
	for _, userId := range state.Seats {
		if userId == "" {
			continue
		}
		seats = append(seats, userId)
		name := userId
		if p, exists := state.Presences[userId]; exists {
			name = p.GetUsername()
		} else if n := bot.GetBotUsername(userId); n != "" {
			name = n
		}
		names = append(names, name)
	}

	starter := -1
	if state.LastStartSeat >= 0 {
		starter = (state.LastStartSeat + 1) % len(seats)
	}

	game, events, err := state.App.StartGame(names, state.Mode, starter)
	if err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		return
	}

	state.Game = game
	state.GameSeats = seats
	state.LastStartSeat = game.Current
	state.TurnSeat = -1
	state.BotWaitUntil = 0

	mh.updateLabel(state, dispatcher, logger)

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}

	logger.Info("StartGame: Game started with %d players on a %dx%d board.", activeCount, game.Board.Size(), game.Board.Size())
}

func (mh *matchHandler) handlePlacePiece(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.Game == nil {
		logger.Warn("handlePlacePiece: Game not started.")
		return
	}

	senderSeat := state.engineSeatOf(senderID)
	if senderSeat < 0 {
		logger.Warn("handlePlacePiece: User %s is not seated in the running game.", senderID)
		return
	}

	var request PlacePieceRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handlePlacePiece: Failed to unmarshal request: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "malformed placement request")
		return
	}

	events, err := state.App.PlacePiece(state.Game, senderSeat, request.Piece, request.Orientation, request.Row, request.Col)
	if err != nil {
		logger.Warn("handlePlacePiece: User %s (seat %d) failed to place %s at (%d,%d): %v", senderID, senderSeat, request.Piece, request.Row, request.Col, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handlePassTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.Game == nil {
		logger.Warn("handlePassTurn: Game not started.")
		return
	}

	senderSeat := state.engineSeatOf(senderID)
	if senderSeat < 0 {
		logger.Warn("handlePassTurn: User %s is not seated in the running game.", senderID)
		return
	}

	events, err := state.App.PassTurn(state.Game, senderSeat)
	if err != nil {
		logger.Warn("handlePassTurn: User %s (seat %d) failed to pass turn: %v", senderID, senderSeat, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleRequestNewGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := -1
	for i, seatUserId := range state.Seats {
		if seatUserId == senderID {
			senderSeat = i
			break
		}
	}

	if senderSeat != state.OwnerSeat {
		logger.Warn("handleRequestNewGame: User %s is not the owner.", senderID)
		return
	}
	if state.Game != nil && state.Game.Status == domain.StatusInProgress {
		logger.Warn("handleRequestNewGame: Game still in progress.")
		return
	}

	// A finished game with an unchanged lobby restarts in place with
	// fresh hands; otherwise fall back to the full start path.
	if state.Game != nil && lobbyMatchesGame(state) {
		game, events, err := state.App.NewRound(state.Game)
		if err != nil {
			logger.Error("handleRequestNewGame: Failed to start new round: %v", err)
			return
		}
		state.Game = game
		state.LastStartSeat = game.Current
		state.TurnSeat = -1
		state.BotWaitUntil = 0
		mh.updateLabel(state, dispatcher, logger)
		for _, ev := range events {
			mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
		}
		return
	}

	mh.handleStartGame(ctx, state, dispatcher, logger, msg)
}

// lobbyMatchesGame reports whether the occupied seats are exactly the seats
// of the last game, in order.
func lobbyMatchesGame(state *MatchState) bool {
	occupied := make([]string, 0, len(state.Seats))
	for _, userId := range state.Seats {
		if userId != "" {
			occupied = append(occupied, userId)
		}
	}
	if len(occupied) != len(state.GameSeats) {
		return false
	}
	for i, userId := range occupied {
		if state.GameSeats[i] != userId {
			return false
		}
	}
	return true
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	var payload any

	switch ev.Kind {
	case app.EventGameStarted:
		opCode = OpGameStarted
		p := ev.Payload.(app.GameStartedPayload)
		logger.Debug("Event: game_started (boardSize=%d, firstTurnSeat=%d)", p.BoardSize, p.FirstTurnSeat)
		payload = p
	case app.EventPiecePlaced:
		opCode = OpPiecePlaced
		payload = ev.Payload.(app.PiecePlacedPayload)
	case app.EventTurnPassed:
		opCode = OpTurnPassed
		payload = ev.Payload.(app.TurnPassedPayload)
	case app.EventSeatFinished:
		opCode = OpSeatFinished
		payload = ev.Payload.(app.SeatFinishedPayload)
	case app.EventGameEnded:
		opCode = OpGameEnded
		p := ev.Payload.(app.GameEndedPayload)
		p.BalanceChanges = mh.settle(ctx, state, logger)
		mh.saveSnapshot(ctx, state, logger)

		payload = p

		// The finished game is kept around for rematch requests; the
		// label flips back to lobby so the match becomes listable.
		mh.updateLabel(state, dispatcher, logger)
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// Targeted events with no connected recipients (bots) must not
		// leak to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// settle applies wallet changes for the finished game and returns the changes
// keyed by user id for the game_ended payload.
func (mh *matchHandler) settle(ctx context.Context, state *MatchState, logger runtime.Logger) map[string]int64 {
	if state.Game == nil {
		return nil
	}

	baseBet := config.GetBaseBet(state.Tier)
	settlement := state.Game.CalculateSettlement(baseBet)

	changes := make(map[string]int64, len(settlement.BalanceChanges))
	for seat, amount := range settlement.BalanceChanges {
		if seat < 0 || seat >= len(state.GameSeats) {
			continue
		}
		changes[state.GameSeats[seat]] = amount
	}

	if state.Economy != nil {
		updates := make([]ports.WalletUpdate, 0, len(changes))
		for userID, amount := range changes {
			if bot.IsBot(userID) {
				continue
			}
			updates = append(updates, ports.WalletUpdate{
				UserID: userID,
				Amount: amount,
				Metadata: map[string]interface{}{
					"match_id": ctx.Value(runtime.RUNTIME_CTX_MATCH_ID),
					"reason":   "game_settlement",
				},
			})
		}
		if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
			logger.Error("Failed to update balances: %v", err)
		}
	}

	return changes
}

// saveSnapshot renders the final board and stores it for replay views.
func (mh *matchHandler) saveSnapshot(ctx context.Context, state *MatchState, logger runtime.Logger) {
	if state.Game == nil || state.Snapshots == nil {
		return
	}

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	if matchID == "" {
		return
	}

	colors := make([]string, len(state.Game.Players))
	for i, p := range state.Game.Players {
		colors[i] = p.Color
	}

	svg := render.BoardSVG(state.Game.Board, colors)
	metadata := map[string]interface{}{
		"scores":  state.Game.Scores(),
		"winners": state.Game.Winners(),
		"seats":   state.GameSeats,
	}
	if err := state.Snapshots.SaveFinalBoard(ctx, matchID, svg, metadata); err != nil {
		logger.Error("Failed to save board snapshot: %v", err)
	}
}

// sendError sends a GameErrorEvent to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := json.Marshal(GameErrorEvent{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal GameErrorEvent: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// A finished game stays on the state for rematch, so the lobby
	// check has to look at status, not presence of a game.
	matchState := "lobby"
	if !state.inLobby() {
		matchState = "playing"
	}

	labelBytes, err := json.Marshal(MatchLabel{
		Open:  state.GetOpenSeatsCount(),
		State: matchState,
		Game:  "blokus",
		Mode:  state.Mode,
	})
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
