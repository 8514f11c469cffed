package chains

import (
	"context"
	"fmt"
	"log"

	"chainbreak/clients"
	"chainbreak/models"
	"chainbreak/services"
	"chainbreak/usecases"
	"chainbreak/utils"
)

// Policy controls when a run of identical comments triggers a reply.
type Policy string

const (
	// PolicyExact replies only on a run of exactly the configured length.
	// A longer run stays silent: the comment sitting at the true origin of
	// the chain already triggered, and replying again on every later
	// comment would turn the bot into its own reply storm.
	PolicyExact Policy = "exact"

	// PolicyAtLeast replies on any run of at least the configured length.
	PolicyAtLeast Policy = "at_least"
)

// ParsePolicy converts a configuration string into a Policy.
func ParsePolicy(raw string) (Policy, error) {
	switch Policy(raw) {
	case PolicyExact, PolicyAtLeast:
		return Policy(raw), nil
	default:
		return "", fmt.Errorf("unknown chain policy %q", raw)
	}
}

// Verdict is the outcome of classifying one comment.
type Verdict struct {
	IsChain   bool
	RunLength int
}

// ChainUseCase consumes the live comment stream and classifies each comment
// as it arrives. Classification is stateless: every comment is judged from
// scratch against the remote thread graph, so duplicates from stream
// reconnects are harmless.
type ChainUseCase struct {
	client      clients.RedditClient
	responder   usecases.Responder
	communities services.CommunitiesService
	chainLength int
	policy      Policy
}

func NewChainUseCase(
	client clients.RedditClient,
	responder usecases.Responder,
	communities services.CommunitiesService,
	chainLength int,
	policy Policy,
) *ChainUseCase {
	utils.AssertInvariant(chainLength >= 2, "chain length must be at least 2")
	return &ChainUseCase{
		client:      client,
		responder:   responder,
		communities: communities,
		chainLength: chainLength,
		policy:      policy,
	}
}

// Classify walks the parent links of comment and decides whether it closes
// a chain of identical-body comments of the configured length.
//
// Every parent hop is a fallible remote fetch, never a pointer dereference.
// Any fetch error or unresolvable parent fails safe to "not a chain": a
// suppressed reply is invisible, a reply built on partial data is not.
func (u *ChainUseCase) Classify(ctx context.Context, comment *models.Comment) (Verdict, error) {
	cursor := comment
	runLength := 1

	for runLength < u.chainLength {
		parent, err := u.client.ResolveParent(ctx, cursor)
		if err != nil {
			return Verdict{RunLength: runLength}, fmt.Errorf("failed to resolve parent of %s: %w", cursor.FullID, err)
		}
		if parent.Kind != models.ParentComment || parent.Comment.Body != cursor.Body {
			return Verdict{RunLength: runLength}, nil
		}
		runLength++
		cursor = parent.Comment
	}

	if u.policy == PolicyAtLeast {
		return Verdict{IsChain: true, RunLength: runLength}, nil
	}

	// Exact policy: one lookahead past the run. The run only counts when it
	// genuinely starts at cursor - either the thread root sits above it, or
	// the next ancestor carries a different body.
	parent, err := u.client.ResolveParent(ctx, cursor)
	if err != nil {
		return Verdict{RunLength: runLength}, fmt.Errorf("failed to resolve parent of %s: %w", cursor.FullID, err)
	}
	switch {
	case parent.Kind == models.ParentSubmission:
		return Verdict{IsChain: true, RunLength: runLength}, nil
	case parent.Kind == models.ParentComment && parent.Comment.Body != comment.Body:
		return Verdict{IsChain: true, RunLength: runLength}, nil
	default:
		// Run longer than the configured length, or an unresolvable
		// ancestor. Either way this comment is not the trigger point.
		return Verdict{RunLength: runLength}, nil
	}
}

// Run consumes the comment stream until ctx is cancelled. Per-comment
// failures are logged and skipped; nothing that happens to a single comment
// may kill the loop.
func (u *ChainUseCase) Run(ctx context.Context) error {
	log.Printf("✅ Chain detector watching %d target subreddits", len(u.communities.TargetNames()))

	stream := u.client.StreamComments(ctx, u.communities.TargetNames)
	for comment := range stream {
		log.Printf("👀 Looking at r/%s comment: %q", comment.Subreddit, utils.SummarizeBody(comment.Body))

		verdict, err := u.Classify(ctx, &comment)
		if err != nil {
			log.Printf("⚠️ Classification of %s aborted: %v", comment.FullID, err)
			continue
		}
		if !verdict.IsChain {
			continue
		}

		log.Printf("🔗 Comment %s closes a chain of length %d in r/%s",
			comment.FullID, verdict.RunLength, comment.Subreddit)
		if err := u.responder.Reply(ctx, &comment, models.ReplyReasonChain); err != nil {
			log.Printf("⚠️ Chain reply failed: %v", err)
		}
	}

	log.Printf("🛑 Comment stream closed, chain detector stopping")
	return nil
}
