package status

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("post")))
	assert.Equal(t, KindValidation, KindOf(Validation("blank")))
	assert.Equal(t, KindForbidden, KindOf(Forbidden("NotOwner", "no")))
	assert.Equal(t, KindConflict, KindOf(Conflict(ReasonCategoryInUse, "still referenced")))
	assert.Equal(t, KindPartialReference, KindOf(PartialReference("half applied", nil)))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("while deleting: %w", NotFound("comment"))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, IsKind(err, KindNotFound))
}

func TestPartialReferenceKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := PartialReference("unable to complete link like", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}
