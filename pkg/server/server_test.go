package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/tag-atlas/pkg/models/api"
	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/de-tools/tag-atlas/pkg/store/csvstore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, findings []domain.Finding) *httptest.Server {
	t.Helper()

	store := csvstore.NewStore(t.TempDir())
	if findings != nil {
		_, err := store.Write(findings, time.Now())
		require.NoError(t, err)
	}

	webAPI := NewWebAPI(zerolog.Nop(), Config{
		Addr: "127.0.0.1:0",
		Dependencies: Dependencies{
			Store:      store,
			SampleSize: 5,
		},
	})

	srv := httptest.NewServer(webAPI.router)
	t.Cleanup(srv.Close)
	return srv
}

func TestSummaryRoute(t *testing.T) {
	findings := []domain.Finding{
		{
			Account:      "123456789012",
			Region:       "us-east-1",
			ResourceKind: domain.KindEC2Instance,
			ARN:          "arn:aws:ec2:us-east-1:123456789012:instance/i-1",
			MissingTags:  []string{"Owner"},
		},
	}
	srv := newTestAPI(t, findings)

	resp, err := http.Get(srv.URL + "/api/v1/summary")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var summary api.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, []api.Count{{Key: "EC2 Instance", Count: 1}}, summary.ByKind)
}

func TestSummaryRouteNoDataset(t *testing.T) {
	srv := newTestAPI(t, nil)

	resp, err := http.Get(srv.URL + "/api/v1/summary")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFindingsRoute(t *testing.T) {
	findings := []domain.Finding{
		{
			Account:      "123456789012",
			Region:       domain.GlobalRegion,
			ResourceKind: domain.KindS3Bucket,
			ARN:          "arn:aws:s3:::raw-events",
			MissingTags:  []string{"Environment", "Owner"},
		},
	}
	srv := newTestAPI(t, findings)

	resp, err := http.Get(srv.URL + "/api/v1/findings?resource=S3+Bucket")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var list api.FindingList
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, "S3 Bucket", list.Resource)
	require.Len(t, list.Findings, 1)
	assert.Equal(t, []string{"Environment", "Owner"}, list.Findings[0].MissingTags)
}
