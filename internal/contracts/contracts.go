// Package contracts holds the ABIs of the external creator DAO contracts
// and the Go shapes of their tuples and events.
package contracts

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
)

var (
	//go:embed abi/governor.json
	governorJSON string
	//go:embed abi/nft.json
	nftJSON string
	//go:embed abi/registry.json
	registryJSON string
	//go:embed abi/factory.json
	factoryJSON string
)

var (
	GovernorABI = mustParse("governor", governorJSON)
	NFTABI      = mustParse("nft", nftJSON)
	RegistryABI = mustParse("registry", registryJSON)
	FactoryABI  = mustParse("factory", factoryJSON)
)

// ErrEventMismatch is returned when a log is not the requested event.
var ErrEventMismatch = errors.New("log does not match event signature")

func mustParse(name, raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("parse %s abi: %v", name, err))
	}
	return parsed
}

// RegistryCommunity is the registry's Community struct.
type RegistryCommunity struct {
	CommunityId *big.Int
	Creator     common.Address
	Nft         common.Address
	Governor    common.Address
	Timelock    common.Address
	MetadataURI string
	CreatedAt   uint64
}

// DeploymentConfig is the factory's createCommunity argument.
type DeploymentConfig struct {
	Name              string
	Symbol            string
	BaseURI           string
	Creator           common.Address
	MaxSupply         *big.Int
	VotingDelay       *big.Int
	VotingPeriod      uint32
	ProposalThreshold *big.Int
	QuorumNumerator   *big.Int
	DeployTimelock    bool
	MetadataURI       string
}

// ProposalCreated is the governor event emitted by propose.
type ProposalCreated struct {
	ProposalId  *big.Int
	Proposer    common.Address
	Targets     []common.Address
	Values      []*big.Int
	Signatures  []string
	Calldatas   [][]byte
	VoteStart   *big.Int
	VoteEnd     *big.Int
	Description string
	Raw         types.Log
}

// VoteCast is the governor event emitted by castVote.
type VoteCast struct {
	Voter      common.Address
	ProposalId *big.Int
	Support    uint8
	Weight     *big.Int
	Reason     string
	Raw        types.Log
}

// CommunityCreated is the factory event carrying deployed addresses.
type CommunityCreated struct {
	Creator     common.Address
	CommunityId *big.Int
	Nft         common.Address
	Governor    common.Address
	Timelock    common.Address
	Raw         types.Log
}

// EventID returns the topic0 of an event.
func EventID(parsed abi.ABI, event string) common.Hash {
	return parsed.Events[event].ID
}

// UnpackLog decodes both data and indexed topics of log into out.
func UnpackLog(parsed abi.ABI, out any, event string, log types.Log) error {
	ev, ok := parsed.Events[event]
	if !ok {
		return fmt.Errorf("unknown event %s", event)
	}
	if len(log.Topics) == 0 || log.Topics[0] != ev.ID {
		return ErrEventMismatch
	}
	if len(log.Data) > 0 {
		if err := parsed.UnpackIntoInterface(out, event, log.Data); err != nil {
			return fmt.Errorf("unpack %s data: %w", event, err)
		}
	}
	var indexed abi.Arguments
	for _, arg := range ev.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	if err := abi.ParseTopics(out, indexed, log.Topics[1:]); err != nil {
		return fmt.Errorf("parse %s topics: %w", event, err)
	}
	return nil
}

// DecodeProposalCreated decodes a governor ProposalCreated log.
func DecodeProposalCreated(log types.Log) (ProposalCreated, error) {
	var ev ProposalCreated
	if err := UnpackLog(GovernorABI, &ev, "ProposalCreated", log); err != nil {
		return ProposalCreated{}, err
	}
	ev.Raw = log
	return ev, nil
}

// DecodeVoteCast decodes a governor VoteCast log.
func DecodeVoteCast(log types.Log) (VoteCast, error) {
	var ev VoteCast
	if err := UnpackLog(GovernorABI, &ev, "VoteCast", log); err != nil {
		return VoteCast{}, err
	}
	ev.Raw = log
	return ev, nil
}

// FindCommunityCreated returns the first CommunityCreated log of a receipt.
func FindCommunityCreated(logs []*types.Log) (CommunityCreated, bool) {
	for _, log := range logs {
		if log == nil {
			continue
		}
		var ev CommunityCreated
		if err := UnpackLog(FactoryABI, &ev, "CommunityCreated", *log); err != nil {
			continue
		}
		ev.Raw = *log
		return ev, true
	}
	return CommunityCreated{}, false
}

// RevertName resolves the custom error or revert reason carried by a
// failed call. It reports false when err has no revert data.
func RevertName(parsed abi.ABI, err error) (string, bool) {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return "", false
	}
	raw, ok := dataErr.ErrorData().(string)
	if !ok {
		return "", false
	}
	data, decErr := hexutil.Decode(raw)
	if decErr != nil || len(data) < 4 {
		return "", false
	}
	for name, e := range parsed.Errors {
		if bytes.Equal(e.ID[:4], data[:4]) {
			return name, true
		}
	}
	if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
		return reason, true
	}
	return "", false
}
