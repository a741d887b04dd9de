// Package calendar implements the OpenTimestamps calendar HTTP protocol
// (spec.md §6): the "external collaborator" submit/upgrade fetches.
package calendar

import (
	"context"

	"github.com/opentimestamps/go-ots/pkg/model"
)

// acceptHeader is sent on every calendar request (spec.md §6).
const acceptHeader = "application/vnd.opentimestamps.v1"

// Client is the collaborator contract a workflow fans out to. submit and
// upgrade in pkg/workflow depend on this interface, not on *HTTPClient*
// directly, so tests can substitute a mock without a network.
type Client interface {
	// Submit POSTs digest to <url>/digest and returns the resulting tree.
	Submit(ctx context.Context, url model.URL, digest []byte) (*model.Tree, error)
	// Upgrade GETs <url>/timestamp/<hex-msg> and returns the resulting tree.
	Upgrade(ctx context.Context, url model.URL, msg []byte) (*model.Tree, error)
}
