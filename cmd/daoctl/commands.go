package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Tribo-Hackathon/Tribo/internal/app"
	"github.com/Tribo-Hackathon/Tribo/internal/cache"
	"github.com/Tribo-Hackathon/Tribo/internal/governance"
	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jessevdk/go-flags"
)

var errWalletRequired = errors.New("this command signs a transaction; set --private-key")

type communityArg struct {
	Community string `long:"community" short:"c" description:"community id" required:"true"`
}

type userArg struct {
	User string `long:"user" short:"u" description:"account address" required:"true"`
}

func register(p *flags.Parser) {
	commands := []struct {
		name, short string
		data        interface{}
	}{
		{"communities", "List registered communities", &communitiesCommand{}},
		{"profile", "Show a community with its NFT metadata", &profileCommand{}},
		{"status", "Show the role of an account in a community", &statusCommand{}},
		{"eligibility", "Check whether an account may create proposals", &eligibilityCommand{}},
		{"proposals", "List the proposals of a community", &proposalsCommand{}},
		{"votes", "List the votes cast on a proposal", &votesCommand{}},
		{"vote", "Cast a vote", &voteCommand{}},
		{"delegate", "Delegate NFT voting power", &delegateCommand{}},
		{"propose", "Create a proposal", &proposeCommand{}},
		{"mint", "Mint a membership NFT at the current price", &mintCommand{}},
		{"deploy", "Deploy a new community through the factory", &deployCommand{}},
		{"cache", "Show or clear the shared read cache (--redis-url)", &cacheCommand{}},
	}
	for _, c := range commands {
		if _, err := p.AddCommand(c.name, c.short, "", c.data); err != nil {
			panic(fmt.Sprintf("register %s: %v", c.name, err))
		}
	}
}

// txOutput is printed by every command that sends a transaction.
type txOutput struct {
	TxHash   common.Hash `json:"txHash"`
	Explorer string      `json:"explorer"`
	Status   string      `json:"status"`
}

func newTxOutput(network model.Network, hash common.Hash) txOutput {
	return txOutput{TxHash: hash, Explorer: model.TransactionURL(network, hash), Status: "submitted"}
}

func lookupCommunity(ctx context.Context, s *app.Stack, raw string) (model.Community, error) {
	id, err := parseID(raw)
	if err != nil {
		return model.Community{}, err
	}
	return s.Registry.GetCommunity(ctx, id)
}

func parseID(raw string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
	if !ok || id.Sign() < 0 {
		return nil, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func parseAddress(raw string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("invalid address %q", raw)
	}
	return common.HexToAddress(raw), nil
}

// parseAmount accepts wei as a decimal integer. Empty yields nil.
func parseAmount(raw string) (*big.Int, error) {
	if raw == "" {
		return nil, nil
	}
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", raw)
	}
	return v, nil
}

type communitiesCommand struct {
	Creator string `long:"creator" description:"only the community of this creator"`
}

func (c *communitiesCommand) Execute([]string) error {
	return withStack(func(ctx context.Context, s *app.Stack) (any, error) {
		if c.Creator == "" {
			return s.Registry.ListCommunities(ctx), nil
		}
		creator, err := parseAddress(c.Creator)
		if err != nil {
			return nil, err
		}
		return s.Registry.FindByCreator(ctx, creator)
	})
}

type profileCommand struct {
	communityArg
}

func (c *profileCommand) Execute([]string) error {
	return withStack(func(ctx context.Context, s *app.Stack) (any, error) {
		id, err := parseID(c.Community)
		if err != nil {
			return nil, err
		}
		return s.Communities.GetCommunityProfile(ctx, id)
	})
}

type statusCommand struct {
	communityArg
	userArg
}

func (c *statusCommand) Execute([]string) error {
	return withStack(func(ctx context.Context, s *app.Stack) (any, error) {
		community, err := lookupCommunity(ctx, s, c.Community)
		if err != nil {
			return nil, err
		}
		user, err := parseAddress(c.User)
		if err != nil {
			return nil, err
		}
		return s.Communities.GetUserStatus(ctx, user, community), nil
	})
}

type eligibilityCommand struct {
	communityArg
	userArg
}

func (c *eligibilityCommand) Execute([]string) error {
	return withStack(func(ctx context.Context, s *app.Stack) (any, error) {
		community, err := lookupCommunity(ctx, s, c.Community)
		if err != nil {
			return nil, err
		}
		user, err := parseAddress(c.User)
		if err != nil {
			return nil, err
		}
		return s.Governance.CheckEligibility(ctx, community, user), nil
	})
}

type proposalsCommand struct {
	communityArg
	Filter string `long:"filter" description:"all, active or completed" default:"all"`
}

func (c *proposalsCommand) Execute([]string) error {
	filter, err := governance.ParseFilter(c.Filter)
	if err != nil {
		return err
	}
	return withStack(func(ctx context.Context, s *app.Stack) (any, error) {
		community, err := lookupCommunity(ctx, s, c.Community)
		if err != nil {
			return nil, err
		}
		d := s.Governance.DiscoverProposals(ctx, community.Governor)
		d.Proposals = governance.FilterProposals(d.Proposals, filter)
		return d, nil
	})
}

type votesCommand struct {
	communityArg
	Proposal string `long:"proposal" short:"p" description:"proposal id" required:"true"`
}

func (c *votesCommand) Execute([]string) error {
	return withStack(func(ctx context.Context, s *app.Stack) (any, error) {
		community, err := lookupCommunity(ctx, s, c.Community)
		if err != nil {
			return nil, err
		}
		id, err := parseID(c.Proposal)
		if err != nil {
			return nil, err
		}
		return s.Governance.ListVotes(ctx, community.Governor, id)
	})
}

type voteCommand struct {
	communityArg
	Proposal string `long:"proposal" short:"p" description:"proposal id" required:"true"`
	Support  string `long:"support" description:"vote direction" choice:"for" choice:"against" choice:"abstain" required:"true"`
	Reason   string `long:"reason" description:"optional reason stored on chain"`
	Wait     bool   `long:"wait" description:"wait for the receipt"`
}

func (c *voteCommand) Execute([]string) error {
	support, err := model.ParseVoteSupport(c.Support)
	if err != nil {
		return err
	}
	return withStack(func(ctx context.Context, s *app.Stack) (any, error) {
		if s.Wallet == nil {
			return nil, errWalletRequired
		}
		community, err := lookupCommunity(ctx, s, c.Community)
		if err != nil {
			return nil, err
		}
		id, err := parseID(c.Proposal)
		if err != nil {
			return nil, err
		}
		hash, err := s.Governance.CastVote(ctx, community.Governor, id, support, c.Reason)
		if err != nil {
			return nil, err
		}
		out := newTxOutput(s.Network, hash)
		if c.Wait {
			if _, err := s.Governance.AwaitTransaction(ctx, community.Governor, id, hash); err != nil {
				return nil, err
			}
			out.Status = "confirmed"
		}
		return out, nil
	})
}

type delegateCommand struct {
	communityArg
	To string `long:"to" description:"delegatee; defaults to the signing account"`
}

func (c *delegateCommand) Execute([]string) error {
	return withStack(func(ctx context.Context, s *app.Stack) (any, error) {
		if s.Wallet == nil {
			return nil, errWalletRequired
		}
		community, err := lookupCommunity(ctx, s, c.Community)
		if err != nil {
			return nil, err
		}
		to, err := s.Wallet.Address(ctx)
		if err != nil {
			return nil, err
		}
		if c.To != "" {
			if to, err = parseAddress(c.To); err != nil {
				return nil, err
			}
		}
		hash, err := s.Governance.DelegateVotes(ctx, community.NFT, to)
		if err != nil {
			return nil, err
		}
		return newTxOutput(s.Network, hash), nil
	})
}

type proposeCommand struct {
	communityArg
	Type        string `long:"type" description:"proposal type" choice:"text_only" choice:"treasury" choice:"parameter" choice:"custom" default:"text_only"`
	Title       string `long:"title" description:"proposal title" required:"true"`
	Summary     string `long:"summary" description:"one line summary"`
	Description string `long:"description" description:"full proposal text"`
	Recipient   string `long:"recipient" description:"treasury recipient"`
	Amount      string `long:"amount" description:"treasury amount in wei"`
}

func (c *proposeCommand) params() (governance.ProposalParams, error) {
	amount, err := parseAmount(c.Amount)
	if err != nil {
		return governance.ProposalParams{}, err
	}
	params := governance.ProposalParams{
		Type:        model.ParseProposalType(c.Type),
		Title:       c.Title,
		Summary:     c.Summary,
		Description: c.Description,
		Recipient:   c.Recipient,
		Amount:      amount,
	}
	return params, params.Validate()
}

func (c *proposeCommand) Execute([]string) error {
	params, err := c.params()
	if err != nil {
		return err
	}
	return withStack(func(ctx context.Context, s *app.Stack) (any, error) {
		if s.Wallet == nil {
			return nil, errWalletRequired
		}
		community, err := lookupCommunity(ctx, s, c.Community)
		if err != nil {
			return nil, err
		}
		hash, err := s.Governance.CreateProposal(ctx, community.Governor, params)
		if err != nil {
			return nil, err
		}
		return newTxOutput(s.Network, hash), nil
	})
}

type mintCommand struct {
	communityArg
}

func (c *mintCommand) Execute([]string) error {
	return withStack(func(ctx context.Context, s *app.Stack) (any, error) {
		if s.Wallet == nil {
			return nil, errWalletRequired
		}
		community, err := lookupCommunity(ctx, s, c.Community)
		if err != nil {
			return nil, err
		}
		hash, err := s.Communities.Mint(ctx, community.NFT)
		if err != nil {
			return nil, err
		}
		return newTxOutput(s.Network, hash), nil
	})
}

type deployCommand struct {
	Name        string `long:"name" description:"NFT collection name"`
	Symbol      string `long:"symbol" description:"NFT symbol"`
	BaseURI     string `long:"base-uri" description:"token metadata base URI"`
	MetadataURI string `long:"metadata-uri" description:"community metadata URI"`
	MaxSupply   string `long:"max-supply" description:"0 for unlimited"`
	Timelock    bool   `long:"timelock" description:"deploy a timelock controller"`
}

// config overlays the flags on the default parameters.
func (c *deployCommand) config(creator common.Address) (model.DeploymentConfig, error) {
	cfg := model.DefaultDeploymentConfig(creator)
	if c.Name != "" {
		cfg.Name = c.Name
	}
	if c.Symbol != "" {
		cfg.Symbol = c.Symbol
	}
	if c.BaseURI != "" {
		cfg.BaseURI = c.BaseURI
	}
	cfg.MetadataURI = c.MetadataURI
	cfg.DeployTimelock = c.Timelock
	supply, err := parseAmount(c.MaxSupply)
	if err != nil {
		return model.DeploymentConfig{}, err
	}
	if supply != nil {
		cfg.MaxSupply = supply
	}
	return cfg, nil
}

func (c *deployCommand) Execute([]string) error {
	return withStack(func(ctx context.Context, s *app.Stack) (any, error) {
		if s.Wallet == nil {
			return nil, errWalletRequired
		}
		creator, err := s.Wallet.Address(ctx)
		if err != nil {
			return nil, err
		}
		cfg, err := c.config(creator)
		if err != nil {
			return nil, err
		}
		f, err := s.Factory()
		if err != nil {
			return nil, err
		}
		return f.Deploy(ctx, cfg)
	})
}

type cacheAdmin interface {
	Invalidate(ctx context.Context, prefix string) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (cache.Stats, error)
}

type cacheCommand struct {
	Clear  bool   `long:"clear" description:"drop cached reads before reporting"`
	Prefix string `long:"prefix" description:"with --clear, only drop keys under this prefix"`
}

func (c *cacheCommand) Execute([]string) error {
	return withStack(func(ctx context.Context, s *app.Stack) (any, error) {
		return c.run(ctx, s.Client)
	})
}

func (c *cacheCommand) run(ctx context.Context, admin cacheAdmin) (cache.Stats, error) {
	if c.Prefix != "" && !c.Clear {
		return cache.Stats{}, errors.New("--prefix needs --clear")
	}
	if c.Clear {
		var err error
		if c.Prefix != "" {
			err = admin.Invalidate(ctx, c.Prefix)
		} else {
			err = admin.Clear(ctx)
		}
		if err != nil {
			return cache.Stats{}, fmt.Errorf("clear cache: %w", err)
		}
	}
	return admin.Stats(ctx)
}
