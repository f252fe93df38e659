package browser

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
)

func TestStaleWaitResult_DestroyedContextIsStaleness(t *testing.T) {
	// After a real page load the clicked control's JS context is gone and
	// evals fail; the wait must report that as success, not as an error.
	assert.NoError(t, staleWaitResult(&rod.ObjectNotFoundError{RuntimeRemoteObject: &proto.RuntimeRemoteObject{}}))
	assert.NoError(t, staleWaitResult(cdp.ErrCtxNotFound))
	assert.NoError(t, staleWaitResult(cdp.ErrObjNotFound))
	assert.NoError(t, staleWaitResult(fmt.Errorf("eval: %w", cdp.ErrCtxNotFound)))
}

func TestStaleWaitResult_PassesThroughRealFailures(t *testing.T) {
	assert.NoError(t, staleWaitResult(nil))

	// A control that never goes away runs into the deadline; that error
	// must survive so pagination can report a navigation timeout.
	assert.ErrorIs(t, staleWaitResult(context.DeadlineExceeded), context.DeadlineExceeded)
	assert.Error(t, staleWaitResult(errors.New("websocket closed")))
}
