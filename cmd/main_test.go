package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Flaque/filet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	t.Run("production hides debug and time", func(t *testing.T) {
		var buf bytes.Buffer
		log := setupLogger(envProd, &buf)

		log.Debug("hidden")
		log.Info("Trimming and retrying new address", "address", "Main St")

		assert.NotContains(t, buf.String(), "hidden")
		assert.NotContains(t, buf.String(), "time=")
		assert.Contains(t, buf.String(), `msg="Trimming and retrying new address" address="Main St"`)
	})

	t.Run("local enables debug", func(t *testing.T) {
		var buf bytes.Buffer
		log := setupLogger(envLocal, &buf)

		log.Debug("visible")

		assert.Contains(t, buf.String(), "visible")
		assert.Contains(t, buf.String(), "source=")
	})

	t.Run("unknown env warns", func(t *testing.T) {
		var buf bytes.Buffer
		setupLogger("staging", &buf)

		assert.Contains(t, buf.String(), "The env parameter was not specified or was invalid")
	})
}

func TestRootCommand(t *testing.T) {
	defer filet.CleanUp(t)

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "secret", req.URL.Query().Get("api_key"))
		if req.URL.Query().Get("q") == "Main St Springfield" {
			fmt.Fprint(writer, `[{"place_id":5,"licence":"ODbL","osm_type":"way","osm_id":9,`+
				`"lat":"39.8","lon":"-89.6","display_name":"Main St","class":"highway",`+
				`"type":"residential","importance":0.25}]`)
			return
		}
		fmt.Fprint(writer, `[]`)
	}))
	defer server.Close()

	t.Setenv("GEOBATCH_BASE_URL", server.URL)
	t.Setenv("GEOBATCH_DELAY", "0s")
	t.Setenv("GEOBATCH_METRICS_PORT", "0")
	t.Setenv("DB_HOST", "")

	keyFile := filet.TmpFile(t, "", "secret\n")

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader("Main St Springfield\nNowhere\n"))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"--api-key-file", keyFile.Name()})

	require.NoError(t, rootCmd.ExecuteContext(t.Context()))

	assert.Equal(t,
		"address,place_id,licence,osm_type,osm_id,lat,lon,display_name,class,type,importance\n"+
			"Main St Springfield,5,ODbL,way,9,39.8,-89.6,Main St,highway,residential,0.25\n",
		stdout.String())
	assert.Contains(t, stderr.String(), "Got 0 results")
	assert.Contains(t, stderr.String(), "Batch finished")
}

func TestRootCommand_MissingKeyFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader("Main St\n"))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"-a", "/nonexistent/geobatch.key"})

	err := rootCmd.ExecuteContext(t.Context())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read API key file")
	assert.Empty(t, stdout.String())
}
