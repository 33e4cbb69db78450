package matchpublisherv1

import "context"

// MatchPublisher publishes match events to the downstream topic (spec §2
// "Match Publisher").
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=matchpublisherv1_mock
type MatchPublisher interface {
	PublishMatchEvent(ctx context.Context, event *MatchEvent) error
}
