package kafka

import (
	"context"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdmin is an in-memory TopicAdmin. Create behavior can be overridden to
// simulate broker rejections and races.
type fakeAdmin struct {
	topics      map[string]TopicSpec
	listErr     error
	createErr   error
	listCalls   int
	createCalls int
}

func newFakeAdmin(existing ...TopicSpec) *fakeAdmin {
	topics := make(map[string]TopicSpec)
	for _, spec := range existing {
		topics[spec.Name] = spec
	}
	return &fakeAdmin{topics: topics}
}

func (f *fakeAdmin) ListTopics(ctx context.Context) ([]string, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	names := make([]string, 0, len(f.topics))
	for name := range f.topics {
		names = append(names, name)
	}
	return names, nil
}

func (f *fakeAdmin) CreateTopic(ctx context.Context, spec TopicSpec) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.topics[spec.Name]; ok {
		return kafkago.TopicAlreadyExists
	}
	f.topics[spec.Name] = spec
	return nil
}

func TestEnsureTopicIsIdempotent(t *testing.T) {
	admin := newFakeAdmin()
	prov := NewProvisioner(admin, nil)
	ctx := context.Background()

	spec := TopicSpec{Name: "t", Partitions: 3, Replication: 1}

	outcome, err := prov.EnsureTopic(ctx, spec)
	require.NoError(t, err)
	assert.Equal(t, TopicCreated, outcome)

	outcome, err = prov.EnsureTopic(ctx, spec)
	require.NoError(t, err)
	assert.Equal(t, TopicAlreadyExists, outcome)

	// Parameters of the live topic are untouched after both calls.
	assert.Equal(t, 3, admin.topics["t"].Partitions)
	assert.Equal(t, 1, admin.createCalls, "second call must not attempt creation")
}

func TestEnsureTopicNeverAltersExistingParameters(t *testing.T) {
	admin := newFakeAdmin(TopicSpec{Name: "t", Partitions: 6, Replication: 3})
	prov := NewProvisioner(admin, nil)

	outcome, err := prov.EnsureTopic(context.Background(), TopicSpec{Name: "t", Partitions: 1, Replication: 1})
	require.NoError(t, err)
	assert.Equal(t, TopicAlreadyExists, outcome)
	assert.Equal(t, 6, admin.topics["t"].Partitions)
	assert.Equal(t, 0, admin.createCalls)
}

func TestEnsureTopicToleratesConcurrentCreate(t *testing.T) {
	// The list said the topic was absent, but another process created it
	// before our create call landed.
	admin := newFakeAdmin()
	admin.createErr = kafkago.TopicAlreadyExists
	prov := NewProvisioner(admin, nil)

	outcome, err := prov.EnsureTopic(context.Background(), TopicSpec{Name: "t", Partitions: 3, Replication: 1})
	require.NoError(t, err)
	assert.Equal(t, TopicAlreadyExists, outcome)
}

func TestEnsureTopicPropagatesCreateRejection(t *testing.T) {
	admin := newFakeAdmin()
	admin.createErr = kafkago.InvalidReplicationFactor
	prov := NewProvisioner(admin, nil)

	_, err := prov.EnsureTopic(context.Background(), TopicSpec{Name: "t", Partitions: 3, Replication: 9})
	require.Error(t, err)
	assert.True(t, IsProvisionFailed(err))
	assert.Contains(t, err.Error(), `"t"`)
}

func TestEnsureTopicPropagatesBrokerFailure(t *testing.T) {
	admin := newFakeAdmin()
	admin.listErr = ErrBrokerUnreachable
	prov := NewProvisioner(admin, nil)

	_, err := prov.EnsureTopic(context.Background(), TopicSpec{Name: "t", Partitions: 3, Replication: 1})
	require.Error(t, err)
	assert.True(t, IsBrokerUnreachable(err))
}

func TestEnsureTopicVerifiesPostCondition(t *testing.T) {
	admin := newFakeAdmin()
	prov := NewProvisioner(admin, nil)

	_, err := prov.EnsureTopic(context.Background(), TopicSpec{Name: "t", Partitions: 3, Replication: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, admin.listCalls, "create must be verified by re-listing")
}

func TestIsTopicExistsError(t *testing.T) {
	assert.True(t, isTopicExistsError(kafkago.TopicAlreadyExists))
	assert.False(t, isTopicExistsError(errors.New("boom")))
	assert.False(t, isTopicExistsError(nil))
}
