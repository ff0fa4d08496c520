package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/titansafe/timetable/internal/common"
	"github.com/titansafe/timetable/internal/diagnostics"
	"github.com/titansafe/timetable/internal/logging"
	"github.com/titansafe/timetable/internal/merge"
	"github.com/titansafe/timetable/internal/models"
	"github.com/titansafe/timetable/internal/server/services"
)

// ---- fakes ----

type fakeTimetables struct {
	compileRes *services.CompileResult
	compileErr error
	doc        *models.TimetableDocument
	getErr     error
	ics        string
	icsErr     error
	panics     bool

	gotEvent, gotYear string
}

func (f *fakeTimetables) Compile(_ context.Context, event, year string) (*services.CompileResult, error) {
	if f.panics {
		panic("boom")
	}
	f.gotEvent, f.gotYear = event, year
	return f.compileRes, f.compileErr
}

func (f *fakeTimetables) GetTimetable(_ context.Context, event, year string) (*models.TimetableDocument, error) {
	f.gotEvent, f.gotYear = event, year
	return f.doc, f.getErr
}

func (f *fakeTimetables) ExportICS(context.Context, string, string) (string, error) {
	return f.ics, f.icsErr
}

// ---- helpers ----

// startServer serves over an in-memory listener and returns a client.
func startServer(t *testing.T, ts TimetableService) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer("bufnet", logging.Discard(), ts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})
	return NewClient(conn)
}

// ---- tests ----

func TestCompile_ReturnsSummary(t *testing.T) {
	ft := &fakeTimetables{compileRes: &services.CompileResult{
		Event: "24H MOTOS", Year: "2025", Generated: 12,
		Stats: merge.Stats{Added: 2, Unchanged: 9, KeptManual: 1},
		Diagnostics: []diagnostics.Event{
			{Level: diagnostics.LevelWarning}, {Level: diagnostics.LevelWarning}, {Level: diagnostics.LevelError},
		},
	}}
	c := startServer(t, ft)

	out, err := c.Compile(context.Background(), "24H MOTOS", "2025")
	require.NoError(t, err)

	f := out.GetFields()
	assert.Equal(t, "24H MOTOS", ft.gotEvent)
	assert.Equal(t, float64(12), f["generated"].GetNumberValue())
	assert.Equal(t, float64(2), f["added"].GetNumberValue())
	assert.Equal(t, float64(1), f["keptManual"].GetNumberValue())
	assert.Equal(t, float64(2), f["warnings"].GetNumberValue())
	assert.Equal(t, float64(1), f["errors"].GetNumberValue())
}

func TestGetTimetable_ReturnsDocument(t *testing.T) {
	doc := models.NewTimetableDocument("E", "2025")
	doc.Data["2025-06-12"] = []models.Vignette{{ID: "v1", Date: "2025-06-12", Start: "08:00", Activity: "Opening Porte 5"}}
	c := startServer(t, &fakeTimetables{doc: doc})

	out, err := c.GetTimetable(context.Background(), "E", "2025")
	require.NoError(t, err)

	data := out.GetFields()["data"].GetStructValue().GetFields()
	bucket := data["2025-06-12"].GetListValue().GetValues()
	require.Len(t, bucket, 1)
	assert.Equal(t, "v1", bucket[0].GetStructValue().GetFields()["id"].GetStringValue())
}

func TestExportICS_ReturnsBody(t *testing.T) {
	c := startServer(t, &fakeTimetables{ics: "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"})

	body, err := c.ExportICS(context.Background(), "E", "2025")
	require.NoError(t, err)
	assert.Equal(t, "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", body)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{common.ErrInvalidKey, codes.InvalidArgument},
		{fmt.Errorf("lookup: %w", common.ErrMissingConfiguration), codes.NotFound},
		{common.ErrNotFound, codes.NotFound},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{errors.New("db error: connection reset"), codes.Internal},
	}
	for _, tc := range tests {
		t.Run(tc.code.String(), func(t *testing.T) {
			c := startServer(t, &fakeTimetables{compileErr: tc.err, getErr: tc.err, icsErr: tc.err})

			_, err := c.Compile(context.Background(), "E", "2025")
			assert.Equal(t, tc.code, status.Code(err))

			_, err = c.GetTimetable(context.Background(), "E", "2025")
			assert.Equal(t, tc.code, status.Code(err))

			_, err = c.ExportICS(context.Background(), "E", "2025")
			assert.Equal(t, tc.code, status.Code(err))
		})
	}

	t.Run("internal errors are not leaked", func(t *testing.T) {
		c := startServer(t, &fakeTimetables{compileErr: errors.New("password=secret")})
		_, err := c.Compile(context.Background(), "E", "2025")
		assert.Equal(t, "internal error", status.Convert(err).Message())
	})
}

func TestInterceptor_RecoversPanic(t *testing.T) {
	c := startServer(t, &fakeTimetables{panics: true})

	_, err := c.Compile(context.Background(), "E", "2025")
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestKeyFrom_NumericYear(t *testing.T) {
	req, err := structpb.NewStruct(map[string]any{"event": "E", "year": 2025})
	require.NoError(t, err)

	event, year := keyFrom(req)
	assert.Equal(t, "E", event)
	assert.Equal(t, "2025", year)

	event, year = keyFrom(nil)
	assert.Empty(t, event)
	assert.Empty(t, year)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", logging.Discard(), &fakeTimetables{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.Discard(), &fakeTimetables{})

	assert.Error(t, srv.Run(context.Background()))
}
