package renderer_test

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/neckchi/vesseleta/external/renderer"
	"github.com/neckchi/vesseleta/internal/exceptions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stub wraps a shell script; the appended argv arrives as $1..$4.
func stub(t *testing.T, script string) []string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	return []string{"sh", "-c", script, "stub"}
}

func request() renderer.Request {
	return renderer.Request{Terminal: "ESCO", VesselName: "SRI SUREE", VoyageCode: "V.25080S", Timeout: 5 * time.Second}
}

func TestRender_ParsesStdoutAndPassesArguments(t *testing.T) {
	t.Parallel()

	cmd := stub(t, `echo "rendering $1" >&2
printf '{"success":true,"vessel_found":true,"voyage_found":true,"vessel_name":"%s","voyage_code":"%s","eta":"22/07/2025 10:00","search_method":"vessel_name_and_voyage","error":null,"timeout":"%s"}\n' "$2" "$3" "$4"`)

	got, err := renderer.NewCommandRenderer(nil, time.Second).Render(context.Background(), cmd, request())

	require.NoError(t, err)
	assert.True(t, got.Output.Success)
	assert.True(t, got.Output.VesselFound)
	assert.Equal(t, "SRI SUREE", got.Output.VesselName)
	assert.Equal(t, "V.25080S", got.Output.VoyageCode)
	require.NotNil(t, got.Output.ETA)
	assert.Equal(t, "22/07/2025 10:00", *got.Output.ETA)
	assert.Nil(t, got.Output.Error)
	assert.Equal(t, "rendering ESCO", got.Stderr)
	assert.Equal(t, 0, got.ExitCode)
}

func TestRender_LastJSONLineAfterLogOutput(t *testing.T) {
	t.Parallel()

	cmd := stub(t, `echo "launching browser"
echo '{"success":true,"vessel_found":false,"voyage_found":false,"search_method":"not_found"}'`)

	got, err := renderer.NewCommandRenderer(nil, time.Second).Render(context.Background(), cmd, request())

	require.NoError(t, err)
	assert.True(t, got.Output.Success)
	assert.False(t, got.Output.VesselFound)
	assert.Equal(t, "not_found", got.Output.SearchMethod)
}

func TestRender_UsesDefaultCommand(t *testing.T) {
	t.Parallel()

	cmd := stub(t, `echo '{"success":true,"search_method":"not_found"}'`)

	got, err := renderer.NewCommandRenderer(cmd, time.Second).Render(context.Background(), nil, request())

	require.NoError(t, err)
	assert.True(t, got.Output.Success)
}

func TestRender_NonZeroExitWithoutStdoutIsFetchFailure(t *testing.T) {
	t.Parallel()

	cmd := stub(t, `echo "browser crashed" >&2; exit 3`)

	got, err := renderer.NewCommandRenderer(nil, time.Second).Render(context.Background(), cmd, request())

	require.Error(t, err)
	assert.True(t, exceptions.IsFetchError(err))
	assert.Equal(t, 3, got.ExitCode)
	assert.Contains(t, err.Error(), "browser crashed")
}

func TestRender_NonZeroExitWithJSONIsStillParsed(t *testing.T) {
	t.Parallel()

	cmd := stub(t, `echo '{"success":false,"error":"page never loaded"}'; exit 1`)

	got, err := renderer.NewCommandRenderer(nil, time.Second).Render(context.Background(), cmd, request())

	require.NoError(t, err)
	assert.False(t, got.Output.Success)
	require.NotNil(t, got.Output.Error)
	assert.Equal(t, "page never loaded", *got.Output.Error)
}

func TestRender_GarbageStdout(t *testing.T) {
	t.Parallel()

	cmd := stub(t, `echo "not json at all"`)

	_, err := renderer.NewCommandRenderer(nil, time.Second).Render(context.Background(), cmd, request())

	require.Error(t, err)
	assert.True(t, exceptions.IsFetchError(err))
	assert.True(t, errors.Is(err, exceptions.ErrRendererOutput))
}

func TestRender_TimeoutKillsProcess(t *testing.T) {
	t.Parallel()

	cmd := stub(t, `sleep 10; echo '{"success":true}'`)
	req := request()
	req.Timeout = 200 * time.Millisecond

	start := time.Now()
	_, err := renderer.NewCommandRenderer(nil, time.Second).Render(context.Background(), cmd, req)

	require.Error(t, err)
	assert.True(t, exceptions.IsFetchError(err))
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRender_NoCommand(t *testing.T) {
	t.Parallel()

	_, err := renderer.NewCommandRenderer(nil, time.Second).Render(context.Background(), nil, request())

	require.Error(t, err)
	assert.True(t, exceptions.IsFetchError(err))
}
