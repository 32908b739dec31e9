package dashboard_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RuDeeVelops/ptIt-relo/internal/dashboard"
	"github.com/RuDeeVelops/ptIt-relo/internal/identity"
	"github.com/RuDeeVelops/ptIt-relo/internal/model"
	"github.com/RuDeeVelops/ptIt-relo/internal/store"
	"github.com/RuDeeVelops/ptIt-relo/tests/testutil"
)

// countingStore wraps a Store and counts mutation calls.
type countingStore struct {
	store.Store
	creates atomic.Int64
	deletes atomic.Int64
}

func (s *countingStore) CreateTask(ctx context.Context, t model.Task) (string, error) {
	s.creates.Add(1)
	return s.Store.CreateTask(ctx, t)
}

func (s *countingStore) DeleteTask(ctx context.Context, ownerID, id string) error {
	s.deletes.Add(1)
	return s.Store.DeleteTask(ctx, ownerID, id)
}

func newController(t *testing.T, s store.Store) (*dashboard.Controller, *identity.StaticProvider) {
	t.Helper()

	provider := identity.NewStaticProvider(identity.Account{
		ID: "acct-1", Email: "ru@example.com", Name: "Ru",
	})
	c := dashboard.New(s, provider, zerolog.Nop())
	c.Start()
	t.Cleanup(c.Close)
	return c, provider
}

func signIn(t *testing.T, p *identity.StaticProvider) {
	t.Helper()
	_, err := p.SignIn(context.Background())
	require.NoError(t, err)
}

func TestCreateTaskRequiresSignIn(t *testing.T) {
	cs := &countingStore{Store: testutil.NewTestStore(t)}
	c, _ := newController(t, cs)

	err := c.CreateTask()

	assert.ErrorIs(t, err, dashboard.ErrNotSignedIn)
	assert.Zero(t, cs.creates.Load())
}

func TestCreateTaskAppearsThroughSubscription(t *testing.T) {
	c, p := newController(t, testutil.NewTestStore(t))
	signIn(t, p)

	require.NoError(t, c.CreateTask())

	tasks := c.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "New step", tasks[0].Title)
	assert.Equal(t, "Planning", tasks[0].Phase)
	assert.Equal(t, model.StatusTodo, tasks[0].Status)
}

func TestUpdateAppliesLocallyFirst(t *testing.T) {
	c, p := newController(t, testutil.NewTestStore(t))
	signIn(t, p)
	require.NoError(t, c.CreateTask())
	id := c.Tasks()[0].ID

	require.NoError(t, c.Update(id, store.TitlePatch{Value: "Visa paperwork"}))

	// Local state reflects the patch without waiting for the remote write.
	assert.Equal(t, "Visa paperwork", c.Tasks()[0].Title)
}

func TestToggleStatusCycles(t *testing.T) {
	c, p := newController(t, testutil.NewTestStore(t))
	signIn(t, p)
	require.NoError(t, c.CreateTask())
	id := c.Tasks()[0].ID

	require.NoError(t, c.ToggleStatus(id))
	assert.Equal(t, model.StatusInProgress, c.Tasks()[0].Status)

	require.NoError(t, c.ToggleStatus(id))
	assert.Equal(t, model.StatusDone, c.Tasks()[0].Status)

	require.NoError(t, c.ToggleStatus(id))
	assert.Equal(t, model.StatusTodo, c.Tasks()[0].Status)
}

func TestToggleStatusUnknownTask(t *testing.T) {
	c, p := newController(t, testutil.NewTestStore(t))
	signIn(t, p)

	assert.ErrorIs(t, c.ToggleStatus("missing"), store.ErrNotFound)
}

func TestDeleteRemovesLocallyImmediately(t *testing.T) {
	cs := &countingStore{Store: testutil.NewTestStore(t)}
	c, p := newController(t, cs)
	signIn(t, p)
	require.NoError(t, c.CreateTask())
	id := c.Tasks()[0].ID

	require.NoError(t, c.Delete(id))

	// The local removal does not depend on the remote outcome.
	assert.Empty(t, c.Tasks())
	assert.Eventually(t, func() bool { return cs.deletes.Load() == 1 },
		time.Second, 10*time.Millisecond)
}

func TestReorderReindexesAllTasks(t *testing.T) {
	c, p := newController(t, testutil.NewTestStore(t))
	signIn(t, p)
	require.NoError(t, c.CreateTask())
	require.NoError(t, c.CreateTask())
	require.NoError(t, c.CreateTask())

	tasks := c.Tasks()
	require.Len(t, tasks, 3)
	reversed := []string{tasks[2].ID, tasks[1].ID, tasks[0].ID}

	require.NoError(t, c.Reorder(reversed))

	// The async order writes trigger interim subscription pushes, so
	// assert on the settled state.
	assert.Eventually(t, func() bool {
		got := c.Tasks()
		return len(got) == 3 &&
			got[0].ID == reversed[0] && got[0].OrderIndex == 1 &&
			got[2].ID == reversed[2] && got[2].OrderIndex == 3
	}, time.Second, 10*time.Millisecond)
}

func TestSignOutClearsState(t *testing.T) {
	c, p := newController(t, testutil.NewTestStore(t))
	signIn(t, p)
	require.NoError(t, c.CreateTask())

	require.NoError(t, p.SignOut())

	assert.Nil(t, c.Account())
	assert.Empty(t, c.Tasks())
	assert.ErrorIs(t, c.CreateTask(), dashboard.ErrNotSignedIn)
}

func TestAuthChangeSwitchesSubscription(t *testing.T) {
	s := testutil.NewTestStore(t)

	providerA := identity.NewStaticProvider(identity.Account{ID: "acct-a"})
	c := dashboard.New(s, providerA, zerolog.Nop())
	c.Start()
	t.Cleanup(c.Close)

	_, err := providerA.SignIn(context.Background())
	require.NoError(t, err)
	require.NoError(t, c.CreateTask())
	require.Len(t, c.Tasks(), 1)

	// Signing out must detach the old owner's subscription: writes to the
	// previous owner no longer reach the controller.
	require.NoError(t, providerA.SignOut())
	_, err = s.CreateTask(context.Background(), model.Task{OwnerID: "acct-a", Title: "late"})
	require.NoError(t, err)

	assert.Empty(t, c.Tasks())
}

func TestSettingsMutations(t *testing.T) {
	c, p := newController(t, testutil.NewTestStore(t))
	signIn(t, p)

	moveDay := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, c.SetRelocationDates(nil, &moveDay, nil))
	require.NoError(t, c.AddTeamMember("Ru"))
	require.NoError(t, c.AddTeamMember("Sam"))
	require.NoError(t, c.AddTeamMember("Ru")) // duplicate is a no-op

	s := c.Settings()
	require.NotNil(t, s.RelocationDate)
	assert.True(t, s.RelocationDate.Equal(moveDay))
	assert.Equal(t, []string{"Ru", "Sam"}, s.TeamMembers)

	require.NoError(t, c.RemoveTeamMember("Ru"))
	assert.Equal(t, []string{"Sam"}, c.Settings().TeamMembers)
}

func TestRemoveTeamMemberLeavesEarlierSnapshotsIntact(t *testing.T) {
	c, p := newController(t, testutil.NewTestStore(t))
	signIn(t, p)
	require.NoError(t, c.AddTeamMember("Ana"))
	require.NoError(t, c.AddTeamMember("Ben"))

	snap := c.Snapshot("our-move", "Lisbon -> Milan")
	settings := c.Settings()

	require.NoError(t, c.RemoveTeamMember("Ana"))

	// Values handed out before the removal keep the team they captured.
	assert.Equal(t, []string{"Ana", "Ben"}, snap.Settings.TeamMembers)
	assert.Equal(t, []string{"Ana", "Ben"}, settings.TeamMembers)
	assert.Equal(t, []string{"Ben"}, c.Settings().TeamMembers)
}

// failingStore wraps a Store and rejects task writes.
type failingStore struct {
	store.Store
}

func (s *failingStore) PatchTask(context.Context, string, string, store.FieldPatch) error {
	return assert.AnError
}

func (s *failingStore) DeleteTask(context.Context, string, string) error {
	return assert.AnError
}

func TestUpdateKeepsLocalStateOnRemoteFailure(t *testing.T) {
	backing := testutil.NewTestStore(t)
	c, p := newController(t, &failingStore{Store: backing})
	signIn(t, p)
	require.NoError(t, c.CreateTask())
	id := c.Tasks()[0].ID

	require.NoError(t, c.Update(id, store.TitlePatch{Value: "Visa paperwork"}))

	// The failed remote patch is logged, never rolled back.
	assert.Equal(t, "Visa paperwork", c.Tasks()[0].Title)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, "Visa paperwork", c.Tasks()[0].Title)
}

func TestDeleteKeepsLocalRemovalOnRemoteFailure(t *testing.T) {
	backing := testutil.NewTestStore(t)
	c, p := newController(t, &failingStore{Store: backing})
	signIn(t, p)
	require.NoError(t, c.CreateTask())
	id := c.Tasks()[0].ID

	require.NoError(t, c.Delete(id))

	assert.Empty(t, c.Tasks())
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, c.Tasks())
}

func TestKPIs(t *testing.T) {
	tasks := []model.Task{
		{BudgetEstimated: 100, BudgetActual: 80, BudgetOptional: 10, Status: model.StatusDone},
		{BudgetEstimated: 200, BudgetActual: 0, BudgetOptional: 0, Status: model.StatusTodo},
		{BudgetEstimated: 50, BudgetActual: 60, BudgetOptional: 5, Status: model.StatusDone},
	}

	k := dashboard.ComputeKPIs(tasks)

	assert.Equal(t, 350.0, k.TotalEstimated)
	assert.Equal(t, 140.0, k.TotalActual)
	assert.Equal(t, 15.0, k.TotalOptional)
	assert.Equal(t, 3, k.TaskCount)
	assert.Equal(t, 2, k.DoneCount)
	assert.Equal(t, 67, k.PercentDone)
}

func TestKPIsEmptyCollection(t *testing.T) {
	k := dashboard.ComputeKPIs(nil)

	assert.Zero(t, k.PercentDone)
	assert.Zero(t, k.TaskCount)
	assert.Zero(t, k.TotalEstimated)
}
