package vesting

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
)

// The two records persist in fixed big-endian layouts so every deployment
// reads the same bytes: amounts are 8 bytes, the reflection index 16 bytes,
// addresses 20 bytes and the token symbol a padded 8-byte field.
const (
	addrLen        = 20
	tokenFieldLen  = 8
	amountFieldLen = 8
	indexFieldLen  = 16

	// EncodedConfigLen is the byte length of an encoded GlobalConfig.
	EncodedConfigLen = addrLen + tokenFieldLen + 3*addrLen + amountFieldLen + indexFieldLen + 2 + 8
	// EncodedStakeLen is the byte length of an encoded UserStake.
	EncodedStakeLen = addrLen + amountFieldLen + 8 + indexFieldLen + amountFieldLen + 8
)

var errTokenSymbolTooLong = fmt.Errorf("vesting: token symbol exceeds %d bytes", tokenFieldLen)

func putAmount(dst []byte, v *big.Int) error {
	if err := checkAmount(v); err != nil {
		return err
	}
	binary.BigEndian.PutUint64(dst, v.Uint64())
	return nil
}

func putIndex(dst []byte, v *big.Int) error {
	if v == nil || v.Sign() < 0 || v.Cmp(maxIndex) > 0 {
		return ErrCalculationOverflow
	}
	v.FillBytes(dst[:indexFieldLen])
	return nil
}

func readIndex(src []byte) *big.Int {
	return new(big.Int).SetBytes(src[:indexFieldLen])
}

// EncodeConfig serialises the config into its fixed layout, rejecting values
// wider than their persisted fields.
func EncodeConfig(cfg *GlobalConfig) ([]byte, error) {
	if cfg == nil {
		return nil, errors.New("vesting: nil config")
	}
	cfg = cfg.Clone().Normalize()
	if len(cfg.Token) > tokenFieldLen {
		return nil, errTokenSymbolTooLong
	}
	buf := make([]byte, EncodedConfigLen)
	off := 0
	copy(buf[off:], cfg.Admin[:])
	off += addrLen
	copy(buf[off:], cfg.Token)
	off += tokenFieldLen
	copy(buf[off:], cfg.TokenVault[:])
	off += addrLen
	copy(buf[off:], cfg.RewardVault[:])
	off += addrLen
	copy(buf[off:], cfg.ReservePool[:])
	off += addrLen
	if err := putAmount(buf[off:], cfg.TotalStaked); err != nil {
		return nil, err
	}
	off += amountFieldLen
	if err := putIndex(buf[off:], cfg.ReflectionIndex); err != nil {
		return nil, err
	}
	off += indexFieldLen
	binary.BigEndian.PutUint16(buf[off:], cfg.YieldRateBps)
	off += 2
	binary.BigEndian.PutUint64(buf[off:], cfg.DistributionCursor)
	return buf, nil
}

// DecodeConfig deserialises a config from its fixed layout.
func DecodeConfig(data []byte) (*GlobalConfig, error) {
	if len(data) != EncodedConfigLen {
		return nil, fmt.Errorf("vesting: config record must be %d bytes (got %d)", EncodedConfigLen, len(data))
	}
	cfg := &GlobalConfig{}
	off := 0
	copy(cfg.Admin[:], data[off:])
	off += addrLen
	cfg.Token = trimTokenField(data[off : off+tokenFieldLen])
	off += tokenFieldLen
	copy(cfg.TokenVault[:], data[off:])
	off += addrLen
	copy(cfg.RewardVault[:], data[off:])
	off += addrLen
	copy(cfg.ReservePool[:], data[off:])
	off += addrLen
	cfg.TotalStaked = new(big.Int).SetUint64(binary.BigEndian.Uint64(data[off:]))
	off += amountFieldLen
	cfg.ReflectionIndex = readIndex(data[off:])
	off += indexFieldLen
	cfg.YieldRateBps = binary.BigEndian.Uint16(data[off:])
	off += 2
	cfg.DistributionCursor = binary.BigEndian.Uint64(data[off:])
	return cfg, nil
}

// EncodeStake serialises a participant record into its fixed layout.
func EncodeStake(stake *UserStake) ([]byte, error) {
	if stake == nil {
		return nil, errors.New("vesting: nil stake")
	}
	stake = stake.Clone().Normalize()
	buf := make([]byte, EncodedStakeLen)
	off := 0
	copy(buf[off:], stake.Owner[:])
	off += addrLen
	if err := putAmount(buf[off:], stake.StakedAmount); err != nil {
		return nil, err
	}
	off += amountFieldLen
	binary.BigEndian.PutUint64(buf[off:], uint64(stake.StartTimestamp))
	off += 8
	if err := putIndex(buf[off:], stake.LastClaimedIndex); err != nil {
		return nil, err
	}
	off += indexFieldLen
	if err := putAmount(buf[off:], stake.UnclaimedYield); err != nil {
		return nil, err
	}
	off += amountFieldLen
	binary.BigEndian.PutUint64(buf[off:], uint64(stake.LastYieldClaimTime))
	return buf, nil
}

// DecodeStake deserialises a participant record from its fixed layout.
func DecodeStake(data []byte) (*UserStake, error) {
	if len(data) != EncodedStakeLen {
		return nil, fmt.Errorf("vesting: stake record must be %d bytes (got %d)", EncodedStakeLen, len(data))
	}
	stake := &UserStake{}
	off := 0
	copy(stake.Owner[:], data[off:])
	off += addrLen
	stake.StakedAmount = new(big.Int).SetUint64(binary.BigEndian.Uint64(data[off:]))
	off += amountFieldLen
	stake.StartTimestamp = int64(binary.BigEndian.Uint64(data[off:]))
	off += 8
	stake.LastClaimedIndex = readIndex(data[off:])
	off += indexFieldLen
	stake.UnclaimedYield = new(big.Int).SetUint64(binary.BigEndian.Uint64(data[off:]))
	off += amountFieldLen
	stake.LastYieldClaimTime = int64(binary.BigEndian.Uint64(data[off:]))
	return stake, nil
}

func trimTokenField(field []byte) string {
	end := len(field)
	for end > 0 && field[end-1] == 0 {
		end--
	}
	return string(field[:end])
}
