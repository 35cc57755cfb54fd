package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterTwice(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestObserveSend(t *testing.T) {
	before := testutil.ToFloat64(NotificationSendsTotal.WithLabelValues("failure"))
	ObserveSend(false)
	after := testutil.ToFloat64(NotificationSendsTotal.WithLabelValues("failure"))
	assert.Equal(t, before+1, after)
}

func TestObserveWrite(t *testing.T) {
	counter := DeploymentWriterRequestsTotal.WithLabelValues("register_deployment", "persisted")
	before := testutil.ToFloat64(counter)
	ObserveWrite("register_deployment", "persisted")
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
