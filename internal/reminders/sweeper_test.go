package reminders

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"activity-planner/internal/domain/activities"
	"activity-planner/internal/platform/logger"
	"activity-planner/internal/ports/identity"
	"activity-planner/internal/ports/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	byDate map[string][]activities.Activity
	asked  []string
}

func (f *fakeSource) ListStartingOn(_ context.Context, date string) ([]activities.Activity, error) {
	f.asked = append(f.asked, date)
	return f.byDate[date], nil
}

type fakeDirectory struct {
	emailByUID map[string]string
	err        error
}

func (f *fakeDirectory) Lookup(_ context.Context, refs []identity.Ref) (identity.Result, error) {
	if f.err != nil {
		return identity.Result{}, f.err
	}
	var res identity.Result
	for _, ref := range refs {
		if email, ok := f.emailByUID[ref.UID]; ok {
			res.Found = append(res.Found, identity.User{UID: ref.UID, Email: email})
			continue
		}
		res.NotFound = append(res.NotFound, ref)
	}
	return res, nil
}

type fakeNotifier struct {
	sent []notify.Message
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, msg notify.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func testActivity(name, startDate string, people activities.RoleMap) activities.Activity {
	return activities.Activity{
		ID:        "act-" + name,
		Name:      name,
		StartDate: startDate,
		People:    people,
	}
}

func TestSweeper_Run_SweepsEveryOffset(t *testing.T) {
	now := time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)

	people := activities.NewRoleMap()
	people.ByUID["u1"] = activities.RoleActivityLeader
	people.ByEmail["pending@example.com"] = activities.RoleViewer

	source := &fakeSource{byDate: map[string][]activities.Activity{
		"2026-09-08": {testActivity("Hike", "2026-09-08", people)},
	}}
	dir := &fakeDirectory{emailByUID: map[string]string{"u1": "u1@example.com"}}
	sink := &fakeNotifier{}

	s := NewSweeper(source, dir, sink, "noreply@example.com", logger.New(logger.Options{}))
	s.now = func() time.Time { return now }

	require.NoError(t, s.Run(context.Background()))

	// una consulta por offset, con la fecha exacta
	assert.Equal(t, []string{"2026-09-08", "2026-09-15", "2026-09-22", "2026-09-29"}, source.asked)

	// un correo por persona: pendiente por email + uid resuelto
	require.Len(t, sink.sent, 2)
	got := []string{sink.sent[0].To, sink.sent[1].To}
	sort.Strings(got)
	assert.Equal(t, []string{"pending@example.com", "u1@example.com"}, got)
	assert.Equal(t, "Reminder: Hike starts in 7 days", sink.sent[0].Subject)
	assert.Equal(t, "noreply@example.com", sink.sent[0].ReplyTo)
}

func TestSweeper_Run_LookupFailure_NotifiesPendingOnly(t *testing.T) {
	now := time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)

	people := activities.NewRoleMap()
	people.ByUID["u1"] = activities.RoleEditor
	people.ByEmail["pending@example.com"] = activities.RoleViewer

	source := &fakeSource{byDate: map[string][]activities.Activity{
		"2026-09-15": {testActivity("Camp", "2026-09-15", people)},
	}}
	dir := &fakeDirectory{err: errors.New("directory down")}
	sink := &fakeNotifier{}

	s := NewSweeper(source, dir, sink, "noreply@example.com", logger.New(logger.Options{}))
	s.now = func() time.Time { return now }

	require.NoError(t, s.Run(context.Background()))
	require.Len(t, sink.sent, 1)
	assert.Equal(t, "pending@example.com", sink.sent[0].To)
	assert.Equal(t, "Reminder: Camp starts in 14 days", sink.sent[0].Subject)
}

func TestSweeper_Run_SendFailure_DoesNotAbort(t *testing.T) {
	now := time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)

	people := activities.NewRoleMap()
	people.ByEmail["a@example.com"] = activities.RoleViewer
	people.ByEmail["b@example.com"] = activities.RoleViewer

	source := &fakeSource{byDate: map[string][]activities.Activity{
		"2026-09-08": {testActivity("Swim", "2026-09-08", people)},
	}}
	sink := &fakeNotifier{err: errors.New("relay down")}

	s := NewSweeper(source, nil, sink, "noreply@example.com", logger.New(logger.Options{}))
	s.now = func() time.Time { return now }

	// best-effort: los fallos de envío no cortan el barrido ni devuelven error
	assert.NoError(t, s.Run(context.Background()))
}
