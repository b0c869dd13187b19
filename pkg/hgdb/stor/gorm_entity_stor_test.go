package stor

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/hashicorp/go-uuid"
	"github.com/heritage-graph/sattal/pkg/hgdb/hgmodel"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateEntityWithRevision(t *testing.T) {
	tc := newTestCase(t)

	entity := tc.createEntity("Angkor Wat", `{"country":"Cambodia"}`)

	require.Equal(t, hgmodel.StatusDraft, entity.Status)
	require.Equal(t, "angkor-wat", entity.Slug)
	require.NotEmpty(t, entity.UUID)
	require.Nil(t, entity.CurrentRevisionID)

	revisions, err := tc.stors.RevisionStor.GetRevisionsForEntity(entity.ID)
	require.NoErrorf(t, err, "GetRevisionsForEntity failed: %s", err)
	require.Len(t, revisions, 1)
	require.Equal(t, 1, revisions[0].RevisionNumber)
	require.Equal(t, tc.contributor.ID, revisions[0].CreatedByID)
	require.JSONEq(t, `{"country":"Cambodia"}`, string(revisions[0].Data))
}

func TestCreateEntityWithRevisionSlugCollision(t *testing.T) {
	tc := newTestCase(t)

	first := tc.createEntity("Patan Durbar Square", `{}`)
	second := tc.createEntity("Patan Durbar Square", `{}`)

	require.Equal(t, "patan-durbar-square", first.Slug)
	require.Equal(t, "patan-durbar-square-1", second.Slug)
}

func TestSubmitEntityForReview(t *testing.T) {
	tc := newTestCase(t)

	entity := tc.createEntity("Angkor Wat", `{}`)

	updated, err := tc.stors.EntityStor.SubmitEntityForReview(entity, tc.contributor)
	require.NoErrorf(t, err, "SubmitEntityForReview failed: %s", err)
	require.Equal(t, hgmodel.StatusPendingReview, updated.Status)

	activities, err := tc.stors.ActivityStor.GetActivitiesForEntity(entity.ID)
	require.NoErrorf(t, err, "GetActivitiesForEntity failed: %s", err)
	require.Len(t, activities, 1)
	require.Equal(t, hgmodel.ActivitySubmitted, activities[0].ActivityType)
	require.Equal(t, tc.contributor.ID, activities[0].UserID)
}

func TestSubmitEntityForReviewFailsWhenNotDraft(t *testing.T) {
	tc := newTestCase(t)

	entity := tc.createEntity("Angkor Wat", `{}`)

	_, err := tc.stors.EntityStor.SubmitEntityForReview(entity, tc.contributor)
	require.NoError(t, err)

	// A second submit must fail without touching status or the audit trail.
	_, err = tc.stors.EntityStor.SubmitEntityForReview(entity, tc.contributor)
	require.ErrorIs(t, err, ErrInvalidTransition)

	current, err := tc.stors.EntityStor.GetEntityByID(entity.ID)
	require.NoError(t, err)
	require.Equal(t, hgmodel.StatusPendingReview, current.Status)
	require.Nil(t, current.CurrentRevisionID)

	count, err := tc.stors.ActivityStor.CountActivitiesForEntity(entity.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestAcceptEntitySetsCurrentRevisionToLatest(t *testing.T) {
	tc := newTestCase(t)

	entity := tc.createEntity("Angkor Wat", `{"v":1}`)

	updated, err := tc.stors.EntityStor.AcceptEntity(entity, tc.editor, "looks good")
	require.NoErrorf(t, err, "AcceptEntity failed: %s", err)
	require.Equal(t, hgmodel.StatusAccepted, updated.Status)
	require.NotNil(t, updated.CurrentRevisionID)

	latest, err := tc.stors.RevisionStor.GetLatestRevision(entity.ID)
	require.NoError(t, err)
	require.Equal(t, latest.ID, *updated.CurrentRevisionID)
	require.Equal(t, 1, latest.RevisionNumber)

	activities, err := tc.stors.ActivityStor.GetActivitiesForEntity(entity.ID)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	require.Equal(t, hgmodel.ActivityAccepted, activities[0].ActivityType)
	require.Equal(t, "looks good", activities[0].Comment)
	require.Equal(t, tc.editor.ID, activities[0].UserID)
}

func TestRejectEntityLeavesCurrentRevisionUntouched(t *testing.T) {
	tc := newTestCase(t)

	entity := tc.createEntity("Angkor Wat", `{"v":1}`)

	accepted, err := tc.stors.EntityStor.AcceptEntity(entity, tc.editor, "")
	require.NoError(t, err)
	require.NotNil(t, accepted.CurrentRevisionID)

	rejected, err := tc.stors.EntityStor.RejectEntity(entity, tc.editor, "needs sources")
	require.NoErrorf(t, err, "RejectEntity failed: %s", err)
	require.Equal(t, hgmodel.StatusRejected, rejected.Status)
	require.Equal(t, *accepted.CurrentRevisionID, *rejected.CurrentRevisionID)

	activities, err := tc.stors.ActivityStor.GetActivitiesForEntity(entity.ID)
	require.NoError(t, err)
	require.Equal(t, hgmodel.ActivityRejected, activities[0].ActivityType)
	require.Equal(t, "needs sources", activities[0].Comment)
}

func TestCreateEntityRevision(t *testing.T) {
	tc := newTestCase(t)

	entity := tc.createEntity("Angkor Wat", `{"v":1}`)

	_, err := tc.stors.EntityStor.RejectEntity(entity, tc.editor, "fix dates")
	require.NoError(t, err)

	revision, err := tc.stors.EntityStor.CreateEntityRevision(entity, tc.contributor, json.RawMessage(`{"v":2}`))
	require.NoErrorf(t, err, "CreateEntityRevision failed: %s", err)
	require.Equal(t, 2, revision.RevisionNumber)
	require.JSONEq(t, `{"v":2}`, string(revision.Data))

	current, err := tc.stors.EntityStor.GetEntityByID(entity.ID)
	require.NoError(t, err)
	require.Equal(t, hgmodel.StatusPendingRevision, current.Status)

	// The entity was never accepted, so there is still no published revision.
	require.Nil(t, current.CurrentRevisionID)

	activities, err := tc.stors.ActivityStor.GetActivitiesForEntity(entity.ID)
	require.NoError(t, err)
	require.Equal(t, hgmodel.ActivityRevised, activities[0].ActivityType)
}

func TestCreateEntityRevisionFailsWhenPendingReview(t *testing.T) {
	tc := newTestCase(t)

	entity := tc.createEntity("Angkor Wat", `{}`)

	_, err := tc.stors.EntityStor.SubmitEntityForReview(entity, tc.contributor)
	require.NoError(t, err)

	_, err = tc.stors.EntityStor.CreateEntityRevision(entity, tc.contributor, json.RawMessage(`{}`))
	require.ErrorIs(t, err, ErrInvalidTransition)

	revisions, err := tc.stors.RevisionStor.GetRevisionsForEntity(entity.ID)
	require.NoError(t, err)
	require.Len(t, revisions, 1)
}

func TestRevisionNumbersAreContiguousUnderConcurrentAppends(t *testing.T) {
	tc := newTestCase(t)

	entity := tc.createEntity("Angkor Wat", `{"v":1}`)

	const appenders = 8

	type appendResult struct {
		number int
		err    error
	}

	var wg sync.WaitGroup
	results := make(chan appendResult, appenders)

	for i := 0; i < appenders; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			revision, err := tc.stors.EntityStor.CreateEntityRevision(entity, tc.contributor, json.RawMessage(fmt.Sprintf(`{"v":%d}`, n)))
			if err != nil {
				results <- appendResult{err: err}
				return
			}
			results <- appendResult{number: revision.RevisionNumber}
		}(i)
	}

	wg.Wait()
	close(results)

	seen := make(map[int]bool)
	for result := range results {
		require.NoErrorf(t, result.err, "CreateEntityRevision failed: %s", result.err)
		require.Falsef(t, seen[result.number], "revision number %d allocated twice", result.number)
		seen[result.number] = true
	}

	// Revision 1 exists from entity creation, so concurrent appends must
	// have been assigned exactly 2..appenders+1.
	for number := 2; number <= appenders+1; number++ {
		require.Truef(t, seen[number], "revision number %d missing", number)
	}
}

func TestAcceptRacingRevisionAppendNeverPublishesStale(t *testing.T) {
	tc := newTestCase(t)

	entity := tc.createEntity("Angkor Wat", `{"v":1}`)

	var (
		wg        sync.WaitGroup
		acceptErr error
		appendErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, acceptErr = tc.stors.EntityStor.AcceptEntity(entity, tc.editor, "")
	}()
	go func() {
		defer wg.Done()
		_, appendErr = tc.stors.EntityStor.CreateEntityRevision(entity, tc.contributor, json.RawMessage(`{"v":2}`))
	}()

	wg.Wait()

	require.NoErrorf(t, acceptErr, "AcceptEntity failed: %s", acceptErr)

	// Either serial order is legal: append-then-accept publishes revision 2,
	// accept-then-append rejects the append because the entity is already
	// accepted. What must never be committed is an accepted entity whose
	// pointer trails the latest revision.
	if appendErr != nil {
		require.ErrorIs(t, appendErr, ErrInvalidTransition)
	}

	current, err := tc.stors.EntityStor.GetEntityByID(entity.ID)
	require.NoError(t, err)
	require.Equal(t, hgmodel.StatusAccepted, current.Status)
	require.NotNil(t, current.CurrentRevisionID)

	var published hgmodel.Revision
	require.NoError(t, tc.db.First(&published, *current.CurrentRevisionID).Error)

	latest, err := tc.stors.RevisionStor.GetLatestRevision(entity.ID)
	require.NoError(t, err)
	require.Equal(t, latest.RevisionNumber, published.RevisionNumber)

	if appendErr == nil {
		require.Equal(t, 2, latest.RevisionNumber)
	}
}

func TestRevisionNumbersAreUniquePerEntity(t *testing.T) {
	tc := newTestCase(t)

	entity := tc.createEntity("Angkor Wat", `{}`)

	revisionUUID, err := uuid.GenerateUUID()
	require.NoError(t, err)

	// Revision 1 exists from entity creation; inserting the same number
	// again must fail on the (entity_id, revision_number) index.
	err = tc.db.Create(&hgmodel.Revision{
		UUID:           revisionUUID,
		EntityID:       entity.ID,
		Data:           json.RawMessage(`{}`),
		RevisionNumber: 1,
		CreatedByID:    tc.contributor.ID,
	}).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestRevisionNumberCollisionRecomputesOnRetry(t *testing.T) {
	tc := newTestCase(t)

	entity := tc.createEntity("Angkor Wat", `{"v":1}`)

	// First attempt claims the already-taken number 1, fails on the unique
	// index, and rolls back; the retry recomputes max+1 and succeeds.
	attempts := 0
	err := WithTxRetry(tc.db, func(tx *gorm.DB) error {
		attempts++

		number := 1
		if attempts > 1 {
			var maxRevisionNumber int
			err := tx.Model(&hgmodel.Revision{}).
				Where("entity_id = ?", entity.ID).
				Select("COALESCE(MAX(revision_number), 0)").
				Scan(&maxRevisionNumber).Error
			require.NoError(t, err)
			number = maxRevisionNumber + 1
		}

		revisionUUID, err := uuid.GenerateUUID()
		require.NoError(t, err)

		return tx.Create(&hgmodel.Revision{
			UUID:           revisionUUID,
			EntityID:       entity.ID,
			Data:           json.RawMessage(`{"v":2}`),
			RevisionNumber: number,
			CreatedByID:    tc.contributor.ID,
		}).Error
	})
	require.NoErrorf(t, err, "retried append failed: %s", err)
	require.Equal(t, 2, attempts)

	latest, err := tc.stors.RevisionStor.GetLatestRevision(entity.ID)
	require.NoError(t, err)
	require.Equal(t, 2, latest.RevisionNumber)
}

func TestGetContributionQueue(t *testing.T) {
	tc := newTestCase(t)

	pending := tc.createEntity("Angkor Wat", `{}`)
	draft := tc.createEntity("Borobudur", `{}`)
	_ = draft

	_, err := tc.stors.EntityStor.SubmitEntityForReview(pending, tc.contributor)
	require.NoError(t, err)

	queue, err := tc.stors.EntityStor.GetContributionQueue()
	require.NoErrorf(t, err, "GetContributionQueue failed: %s", err)
	require.Len(t, queue, 1)

	queued := queue[0]
	require.Equal(t, pending.ID, queued.ID)
	require.Equal(t, hgmodel.StatusPendingReview, queued.Status)
	require.NotNil(t, queued.Contributor)
	require.Equal(t, tc.contributor.ID, queued.Contributor.ID)
	require.Equal(t, int64(1), queued.ActivityCount)
	require.NotNil(t, queued.LatestRevision)
	require.Equal(t, 1, queued.LatestRevision.RevisionNumber)
}

func TestGetEntityDetailOrdersHistories(t *testing.T) {
	tc := newTestCase(t)

	entity := tc.createEntity("Angkor Wat", `{"v":1}`)

	_, err := tc.stors.EntityStor.RejectEntity(entity, tc.editor, "more detail please")
	require.NoError(t, err)

	_, err = tc.stors.EntityStor.CreateEntityRevision(entity, tc.contributor, json.RawMessage(`{"v":2}`))
	require.NoError(t, err)

	detail, err := tc.stors.EntityStor.GetEntityDetailByUUID(entity.UUID)
	require.NoErrorf(t, err, "GetEntityDetailByUUID failed: %s", err)

	require.Len(t, detail.Revisions, 2)
	require.Equal(t, 2, detail.Revisions[0].RevisionNumber)
	require.Equal(t, 1, detail.Revisions[1].RevisionNumber)

	require.Len(t, detail.Activities, 2)

	// Re-reading without mutations returns identical ordered results.
	again, err := tc.stors.EntityStor.GetEntityDetailByUUID(entity.UUID)
	require.NoError(t, err)
	require.Equal(t, len(detail.Revisions), len(again.Revisions))
	for i := range detail.Revisions {
		require.Equal(t, detail.Revisions[i].ID, again.Revisions[i].ID)
	}
}

func TestRevisionDataRoundTrips(t *testing.T) {
	tc := newTestCase(t)

	payload := `{"name":"Angkor Wat","tags":["temple","khmer"],"height_m":65}`
	entity := tc.createEntity("Angkor Wat", payload)

	latest, err := tc.stors.RevisionStor.GetLatestRevision(entity.ID)
	require.NoError(t, err)
	require.JSONEq(t, payload, string(latest.Data))
}
