// Package ioload loads a program file for the interpreter: the contract
// bytecode plus zero or more call environments to run it against, the
// hex/JSON format spec §6 describes.
package ioload

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/eth2030/eth2030/core/types"
	"github.com/eth2030/eth2030/core/vm"
)

// rawProgram mirrors the on-disk JSON shape: {"code": "<hex>", "envs": [...]}.
type rawProgram struct {
	Code string   `json:"code"`
	Envs []rawEnv `json:"envs"`
}

type rawEnv struct {
	Caller    string `json:"caller"`
	CallData  string `json:"callData"`
	Timestamp uint64 `json:"timestamp"`
	Number    uint64 `json:"number"`
	ChainID   uint64 `json:"chainId"`
}

// Program is a loaded code body plus the sequence of environments to run
// it under, in file order.
type Program struct {
	Code []byte
	Envs []vm.Env
}

// GetCode implements vm.CodeSource.
func (p *Program) GetCode() []byte { return p.Code }

// envCursor walks Envs one at a time, implementing vm.EnvSource.
type envCursor struct {
	envs []vm.Env
	i    int
}

// GetNextEnv implements vm.EnvSource.
func (c *envCursor) GetNextEnv() (vm.Env, bool) {
	if c.i >= len(c.envs) {
		return vm.Env{}, false
	}
	e := c.envs[c.i]
	c.i++
	return e, true
}

// NewEnvSource returns a vm.EnvSource walking p.Envs in order.
func (p *Program) NewEnvSource() *envCursor {
	return &envCursor{envs: p.Envs}
}

// LoadProgram reads and parses a program file at path.
func LoadProgram(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ioload: read %s: %w", path, err)
	}
	var raw rawProgram
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ioload: parse %s: %w", path, err)
	}
	code, err := decodeHex(raw.Code)
	if err != nil {
		return nil, fmt.Errorf("ioload: code: %w", err)
	}
	envs := make([]vm.Env, 0, len(raw.Envs))
	for i, re := range raw.Envs {
		env, err := re.toEnv()
		if err != nil {
			return nil, fmt.Errorf("ioload: env %d: %w", i, err)
		}
		envs = append(envs, env)
	}
	return &Program{Code: code, Envs: envs}, nil
}

func (re rawEnv) toEnv() (vm.Env, error) {
	callData, err := decodeHex(re.CallData)
	if err != nil {
		return vm.Env{}, fmt.Errorf("callData: %w", err)
	}
	var caller types.Address
	if re.Caller != "" {
		caller = types.HexToAddress(re.Caller)
	}
	return vm.Env{
		Caller:    caller,
		CallData:  callData,
		Timestamp: re.Timestamp,
		Number:    re.Number,
		ChainID:   re.ChainID,
	}, nil
}

func decodeHex(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	return hex.DecodeString(s)
}
