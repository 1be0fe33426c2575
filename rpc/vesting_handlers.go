package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"stakevest/native/vesting"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

type initializeParams struct {
	Admin        string `json:"admin"`
	Token        string `json:"token"`
	TokenVault   string `json:"tokenVault"`
	RewardVault  string `json:"rewardVault"`
	ReservePool  string `json:"reservePool"`
	YieldRateBps uint16 `json:"yieldRateBps"`
}

type callerParams struct {
	Caller string `json:"caller"`
}

type callerAmountParams struct {
	Caller string `json:"caller"`
	Amount string `json:"amount"`
}

type seedStakeParams struct {
	Caller string `json:"caller"`
	Owner  string `json:"owner"`
	Amount string `json:"amount"`
}

type depositRewardsParams struct {
	Caller      string `json:"caller"`
	Amount      string `json:"amount"`
	TotalSupply string `json:"totalSupply"`
}

type ownerParams struct {
	Owner string `json:"owner"`
}

type addressParams struct {
	Address string `json:"address"`
}

type claimResult struct {
	Paid string `json:"paid"`
}

type configResult struct {
	Admin           string `json:"admin"`
	Token           string `json:"token"`
	TokenVault      string `json:"tokenVault"`
	RewardVault     string `json:"rewardVault"`
	ReservePool     string `json:"reservePool"`
	TotalStaked     string `json:"totalStaked"`
	ReflectionIndex string `json:"reflectionIndex"`
	YieldRateBps    uint16 `json:"yieldRateBps"`
}

type positionResult struct {
	Owner              string `json:"owner"`
	StakedAmount       string `json:"stakedAmount"`
	StartTimestamp     int64  `json:"startTimestamp"`
	LastClaimedIndex   string `json:"lastClaimedIndex"`
	UnclaimedYield     string `json:"unclaimedYield"`
	LastYieldClaimTime int64  `json:"lastYieldClaimTime"`
	Unlocked           string `json:"unlocked"`
	PendingYield       string `json:"pendingYield"`
	PendingReflections string `json:"pendingReflections"`
	ComputedAt         int64  `json:"computedAt"`
}

type balanceResult struct {
	Address string `json:"address"`
	Token   string `json:"token"`
	Native  string `json:"native"`
}

func decodeParams(req *RPCRequest, out interface{}) error {
	if len(req.Params) != 1 {
		return fmt.Errorf("exactly one parameter object expected")
	}
	return json.Unmarshal(req.Params[0], out)
}

func parseAddress(raw string) ([20]byte, error) {
	var addr [20]byte
	trimmed := strings.TrimSpace(raw)
	if !common.IsHexAddress(trimmed) {
		return addr, fmt.Errorf("invalid address %q", raw)
	}
	return [20]byte(common.HexToAddress(trimmed)), nil
}

func parseAmount(raw string) (*big.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("amount is required")
	}
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", raw)
	}
	return value, nil
}

func formatAddress(addr [20]byte) string {
	return common.Address(addr).Hex()
}

// rpcCodeFor maps engine errors onto JSON-RPC codes and HTTP statuses.
func rpcCodeFor(err error) (int, int) {
	switch {
	case errors.Is(err, vesting.ErrUnauthorized):
		return http.StatusForbidden, codeUnauthorized
	case errors.Is(err, vesting.ErrInvalidAmount),
		errors.Is(err, vesting.ErrInvalidTotalSupply):
		return http.StatusBadRequest, codeInvalidParams
	default:
		return http.StatusBadRequest, codeServerError
	}
}

func (s *Server) writeEngineError(w http.ResponseWriter, req *RPCRequest, err error) string {
	status, code := rpcCodeFor(err)
	writeError(w, status, req.ID, code, err.Error(), nil)
	return outcomeError
}

func (s *Server) writeParamsError(w http.ResponseWriter, req *RPCRequest, err error) string {
	writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
	return outcomeError
}

func (s *Server) handleInitialize(w http.ResponseWriter, _ *http.Request, req *RPCRequest) string {
	var params initializeParams
	if err := decodeParams(req, &params); err != nil {
		return s.writeParamsError(w, req, err)
	}
	admin, err := parseAddress(params.Admin)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	tokenVault, err := parseAddress(params.TokenVault)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	rewardVault, err := parseAddress(params.RewardVault)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	reservePool, err := parseAddress(params.ReservePool)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	vaults := vesting.Vaults{TokenVault: tokenVault, RewardVault: rewardVault, ReservePool: reservePool}
	if err := s.node.Initialize(admin, params.Token, vaults, params.YieldRateBps); err != nil {
		return s.writeEngineError(w, req, err)
	}
	writeResult(w, req.ID, map[string]bool{"initialized": true})
	return outcomeOK
}

func (s *Server) handleRegister(w http.ResponseWriter, _ *http.Request, req *RPCRequest) string {
	var params callerParams
	if err := decodeParams(req, &params); err != nil {
		return s.writeParamsError(w, req, err)
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	if err := s.node.Register(caller); err != nil {
		return s.writeEngineError(w, req, err)
	}
	writeResult(w, req.ID, map[string]bool{"registered": true})
	return outcomeOK
}

func (s *Server) handleSeedStake(w http.ResponseWriter, _ *http.Request, req *RPCRequest) string {
	var params seedStakeParams
	if err := decodeParams(req, &params); err != nil {
		return s.writeParamsError(w, req, err)
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	owner, err := parseAddress(params.Owner)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	if err := s.node.SeedStake(caller, owner, amount); err != nil {
		return s.writeEngineError(w, req, err)
	}
	writeResult(w, req.ID, map[string]bool{"seeded": true})
	return outcomeOK
}

func (s *Server) handleDepositRewards(w http.ResponseWriter, _ *http.Request, req *RPCRequest) string {
	var params depositRewardsParams
	if err := decodeParams(req, &params); err != nil {
		return s.writeParamsError(w, req, err)
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	totalSupply, err := parseAmount(params.TotalSupply)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	if err := s.node.DepositRewardFunds(caller, amount, totalSupply); err != nil {
		return s.writeEngineError(w, req, err)
	}
	writeResult(w, req.ID, map[string]bool{"deposited": true})
	return outcomeOK
}

func (s *Server) handleWithdrawReserve(w http.ResponseWriter, _ *http.Request, req *RPCRequest) string {
	var params callerAmountParams
	if err := decodeParams(req, &params); err != nil {
		return s.writeParamsError(w, req, err)
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	if err := s.node.WithdrawReserve(caller, amount); err != nil {
		return s.writeEngineError(w, req, err)
	}
	writeResult(w, req.ID, map[string]bool{"withdrawn": true})
	return outcomeOK
}

func (s *Server) handleStake(w http.ResponseWriter, _ *http.Request, req *RPCRequest) string {
	var params callerAmountParams
	if err := decodeParams(req, &params); err != nil {
		return s.writeParamsError(w, req, err)
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	if err := s.node.Stake(caller, amount); err != nil {
		return s.writeEngineError(w, req, err)
	}
	writeResult(w, req.ID, map[string]bool{"staked": true})
	return outcomeOK
}

func (s *Server) handleUnstake(w http.ResponseWriter, _ *http.Request, req *RPCRequest) string {
	var params callerAmountParams
	if err := decodeParams(req, &params); err != nil {
		return s.writeParamsError(w, req, err)
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	if err := s.node.Unstake(caller, amount); err != nil {
		return s.writeEngineError(w, req, err)
	}
	writeResult(w, req.ID, map[string]bool{"unstaked": true})
	return outcomeOK
}

func (s *Server) handleClaimYield(w http.ResponseWriter, _ *http.Request, req *RPCRequest) string {
	var params callerParams
	if err := decodeParams(req, &params); err != nil {
		return s.writeParamsError(w, req, err)
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	paid, err := s.node.ClaimYield(caller)
	if err != nil {
		return s.writeEngineError(w, req, err)
	}
	writeResult(w, req.ID, claimResult{Paid: paid.String()})
	return outcomeOK
}

func (s *Server) handleClaimReflections(w http.ResponseWriter, _ *http.Request, req *RPCRequest) string {
	var params callerParams
	if err := decodeParams(req, &params); err != nil {
		return s.writeParamsError(w, req, err)
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	paid, err := s.node.ClaimReflections(caller)
	if err != nil {
		return s.writeEngineError(w, req, err)
	}
	writeResult(w, req.ID, claimResult{Paid: paid.String()})
	return outcomeOK
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request, req *RPCRequest) string {
	cfg, err := s.node.Config()
	if err != nil {
		return s.writeEngineError(w, req, err)
	}
	writeResult(w, req.ID, configResult{
		Admin:           formatAddress(cfg.Admin),
		Token:           cfg.Token,
		TokenVault:      formatAddress(cfg.TokenVault),
		RewardVault:     formatAddress(cfg.RewardVault),
		ReservePool:     formatAddress(cfg.ReservePool),
		TotalStaked:     cfg.TotalStaked.String(),
		ReflectionIndex: cfg.ReflectionIndex.String(),
		YieldRateBps:    cfg.YieldRateBps,
	})
	return outcomeOK
}

func (s *Server) handlePosition(w http.ResponseWriter, _ *http.Request, req *RPCRequest) string {
	var params ownerParams
	if err := decodeParams(req, &params); err != nil {
		return s.writeParamsError(w, req, err)
	}
	owner, err := parseAddress(params.Owner)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	position, err := s.node.Position(owner)
	if err != nil {
		return s.writeEngineError(w, req, err)
	}
	stake := position.Stake
	writeResult(w, req.ID, positionResult{
		Owner:              formatAddress(stake.Owner),
		StakedAmount:       stake.StakedAmount.String(),
		StartTimestamp:     stake.StartTimestamp,
		LastClaimedIndex:   stake.LastClaimedIndex.String(),
		UnclaimedYield:     stake.UnclaimedYield.String(),
		LastYieldClaimTime: stake.LastYieldClaimTime,
		Unlocked:           position.Unlocked.String(),
		PendingYield:       position.PendingYield.String(),
		PendingReflections: position.PendingReflections.String(),
		ComputedAt:         position.ComputedAtUnix,
	})
	return outcomeOK
}

func (s *Server) handleBalance(w http.ResponseWriter, _ *http.Request, req *RPCRequest) string {
	var params addressParams
	if err := decodeParams(req, &params); err != nil {
		return s.writeParamsError(w, req, err)
	}
	addr, err := parseAddress(params.Address)
	if err != nil {
		return s.writeParamsError(w, req, err)
	}
	account, err := s.node.Account(addr)
	if err != nil {
		return s.writeEngineError(w, req, err)
	}
	writeResult(w, req.ID, balanceResult{
		Address: formatAddress(addr),
		Token:   account.BalanceToken.String(),
		Native:  account.BalanceNative.String(),
	})
	return outcomeOK
}
