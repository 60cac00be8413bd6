package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"raffleland/internal/models"
)

func seedRaffleWithPrizes(t *testing.T, repo *stubRepo, id uint64, creator string, endTime time.Time, prizes []models.Prize) {
	t.Helper()
	raw, err := models.EncodePrizes(prizes)
	if err != nil {
		t.Fatalf("encode prizes: %v", err)
	}
	repo.raffles[id] = models.Raffle{
		ID:          id,
		Creator:     creator,
		TicketPrice: 100,
		EndTime:     endTime,
		Prizes:      raw,
		Status:      models.RaffleStatusOpen,
	}
	if id > repo.counter {
		repo.counter = id
	}
}

func addParticipants(repo *stubRepo, raffleID uint64, accounts ...string) {
	for i, a := range accounts {
		repo.participants = append(repo.participants, models.Participant{
			RaffleID: raffleID,
			Account:  a,
			Seq:      i,
		})
	}
}

func TestCloseDrawsOneWinnerPerPrize(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, &stubOracle{owner: "custodian.test"})
	ctx := context.Background()

	prizes := []models.Prize{
		{AssetID: "asset-1", Owner: "custodian.test"},
		{AssetID: "asset-2", Owner: "custodian.test"},
	}
	seedRaffleWithPrizes(t, repo, 1, "alice", time.Now().Add(-time.Minute), prizes)
	addParticipants(repo, 1, "bob", "carol", "dave")

	if err := svc.Close(ctx, 1, "alice"); err != nil {
		t.Fatalf("Close: %v", err)
	}

	raffle, _ := repo.GetRaffleByID(ctx, 1)
	if raffle.Status != models.RaffleStatusClosed || raffle.ClosedAt == nil {
		t.Fatalf("raffle = %+v, want closed with timestamp", raffle)
	}

	winners, _ := repo.ListWinners(ctx, 1)
	if len(winners) != len(prizes) {
		t.Fatalf("%d winners, want %d", len(winners), len(prizes))
	}
	seen := map[string]bool{}
	for i, w := range winners {
		if w.Place != i {
			t.Fatalf("winner %d has place %d", i, w.Place)
		}
		if w.PrizeAssetID != prizes[i].AssetID {
			t.Fatalf("place %d paired with asset %q, want %q", i, w.PrizeAssetID, prizes[i].AssetID)
		}
		if seen[w.Account] {
			t.Fatalf("account %q won twice under without_replacement", w.Account)
		}
		seen[w.Account] = true
	}
}

func TestClosePoolSmallerThanPrizeList(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, &stubOracle{owner: "custodian.test"})
	ctx := context.Background()

	seedRaffleWithPrizes(t, repo, 1, "alice", time.Now().Add(-time.Minute), []models.Prize{
		{AssetID: "asset-1", Owner: "custodian.test"},
		{AssetID: "asset-2", Owner: "custodian.test"},
		{AssetID: "asset-3", Owner: "custodian.test"},
	})
	addParticipants(repo, 1, "bob")

	if err := svc.Close(ctx, 1, "alice"); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Without replacement the pool empties after one draw; the remaining
	// prizes go undrawn.
	winners, _ := repo.ListWinners(ctx, 1)
	if len(winners) != 1 {
		t.Fatalf("%d winners from a pool of one, want 1", len(winners))
	}
	if winners[0].Account != "bob" || winners[0].Place != 0 {
		t.Fatalf("winner = %+v, want bob at place 0", winners[0])
	}
}

func TestCloseIsDeterministicPerSeed(t *testing.T) {
	ctx := context.Background()
	run := func(seed byte) []models.Winner {
		repo := newStubRepo()
		svc := newTestService(repo, &stubOracle{owner: "custodian.test"})
		svc.SeedFunc = func() ([]byte, error) {
			s := make([]byte, 32)
			for i := range s {
				s[i] = seed
			}
			return s, nil
		}
		seedRaffleWithPrizes(t, repo, 1, "alice", time.Now().Add(-time.Minute), []models.Prize{
			{AssetID: "asset-1", Owner: "custodian.test"},
			{AssetID: "asset-2", Owner: "custodian.test"},
		})
		addParticipants(repo, 1, "bob", "carol", "dave", "erin")
		if err := svc.Close(ctx, 1, "alice"); err != nil {
			t.Fatalf("Close: %v", err)
		}
		winners, _ := repo.ListWinners(ctx, 1)
		return winners
	}

	first := run(7)
	second := run(7)
	for i := range first {
		if first[i].Account != second[i].Account {
			t.Fatalf("same seed diverged at place %d: %q vs %q",
				i, first[i].Account, second[i].Account)
		}
	}
}

func TestCloseWithoutParticipants(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, &stubOracle{owner: "custodian.test"})
	ctx := context.Background()

	seedRaffleWithPrizes(t, repo, 1, "alice", time.Now().Add(-time.Minute), []models.Prize{
		{AssetID: "asset-1", Owner: "custodian.test"},
	})
	if err := svc.Close(ctx, 1, "alice"); err != nil {
		t.Fatalf("Close: %v", err)
	}
	raffle, _ := repo.GetRaffleByID(ctx, 1)
	if raffle.Status != models.RaffleStatusClosed {
		t.Fatalf("status = %q, want closed", raffle.Status)
	}
	if winners, _ := repo.ListWinners(ctx, 1); len(winners) != 0 {
		t.Fatalf("%d winners drawn from an empty pool", len(winners))
	}
}

func TestCloseAuthorization(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, &stubOracle{owner: "custodian.test"})
	ctx := context.Background()

	seedRaffleWithPrizes(t, repo, 1, "alice", time.Now().Add(-time.Minute), []models.Prize{
		{AssetID: "asset-1", Owner: "custodian.test"},
	})

	if err := svc.Close(ctx, 1, "mallory"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("stranger close: got %v, want ErrUnauthorized", err)
	}
	if err := svc.Close(ctx, 1, "operator.test"); err != nil {
		t.Fatalf("operator close: %v", err)
	}
}

func TestCloseTwice(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, &stubOracle{owner: "custodian.test"})
	ctx := context.Background()

	seedRaffleWithPrizes(t, repo, 1, "alice", time.Now().Add(-time.Minute), []models.Prize{
		{AssetID: "asset-1", Owner: "custodian.test"},
	})
	addParticipants(repo, 1, "bob")

	if err := svc.Close(ctx, 1, "alice"); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := svc.Close(ctx, 1, "alice"); !errors.Is(err, ErrAlreadyClosed) {
		t.Fatalf("second Close: got %v, want ErrAlreadyClosed", err)
	}
	if winners, _ := repo.ListWinners(ctx, 1); len(winners) != 1 {
		t.Fatalf("%d winners after repeated close, want 1", len(winners))
	}
}

func TestCloseUnknownRaffle(t *testing.T) {
	svc := newTestService(newStubRepo(), &stubOracle{owner: "custodian.test"})
	if err := svc.Close(context.Background(), 9, "alice"); !errors.Is(err, ErrUnknownRaffle) {
		t.Fatalf("got %v, want ErrUnknownRaffle", err)
	}
}

func TestCloseStrictEndTimePolicy(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, &stubOracle{owner: "custodian.test"})
	svc.Config.EndTimePolicy = EndTimePolicyStrict
	ctx := context.Background()

	seedRaffleWithPrizes(t, repo, 1, "alice", time.Now().Add(time.Hour), []models.Prize{
		{AssetID: "asset-1", Owner: "custodian.test"},
	})
	if err := svc.Close(ctx, 1, "alice"); !errors.Is(err, ErrRaffleNotEnded) {
		t.Fatalf("early close: got %v, want ErrRaffleNotEnded", err)
	}

	// Past the end time the same close succeeds.
	raffle := repo.raffles[1]
	raffle.EndTime = time.Now().Add(-time.Minute)
	repo.raffles[1] = raffle
	if err := svc.Close(ctx, 1, "alice"); err != nil {
		t.Fatalf("close after end time: %v", err)
	}
}

func TestCloseWithReplacementPolicy(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(repo, &stubOracle{owner: "custodian.test"})
	svc.Config.DrawPolicy = "with_replacement"
	ctx := context.Background()

	prizes := make([]models.Prize, 5)
	for i := range prizes {
		prizes[i] = models.Prize{AssetID: "asset", Owner: "custodian.test"}
	}
	seedRaffleWithPrizes(t, repo, 1, "alice", time.Now().Add(-time.Minute), prizes)
	addParticipants(repo, 1, "bob")

	if err := svc.Close(ctx, 1, "alice"); err != nil {
		t.Fatalf("Close: %v", err)
	}
	winners, _ := repo.ListWinners(ctx, 1)
	if len(winners) != 5 {
		t.Fatalf("%d winners, want one per prize", len(winners))
	}
	for _, w := range winners {
		if w.Account != "bob" {
			t.Fatalf("sole participant lost a draw: %+v", w)
		}
	}
}
