package follower

import (
	"context"
	"time"

	"github.com/Tribo-Hackathon/Tribo/internal/governance"
	"github.com/Tribo-Hackathon/Tribo/internal/model"
	"github.com/ethereum/go-ethereum/common"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Registry interface {
		ListCommunities(ctx context.Context) []model.Community
	}
	Governance interface {
		DiscoverProposals(ctx context.Context, governor common.Address) governance.Discovery
	}
	Repository interface {
		LatestProposalTallies(ctx context.Context, governor common.Address) ([]model.ProposalSnapshot, error)
		InsertProposalSnapshots(ctx context.Context, snapshots []model.ProposalSnapshot) error
		InsertTallyDecreases(ctx context.Context, decreases []model.TallyDecrease) error
	}
	SnapshotWriter interface {
		Start(ctx context.Context)
		Stop()
		Add(ctx context.Context, s model.ProposalSnapshot) error
	}
	Notifier interface {
		ProposalCreated(ctx context.Context, community model.Community, p model.Proposal) error
		TallyDecreased(ctx context.Context, community model.Community, d model.TallyDecrease) error
	}
	Metrics interface {
		ObserveCycle(err error, communities int, started time.Time)
		ObserveSnapshots(err error, snapshots int)
		ObserveTallyDecrease()
		ObserveNotification(err error)
	}
)
