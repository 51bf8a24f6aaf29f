package controller_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"absensi_backend/internals/configs"
	"absensi_backend/internals/features/attendances/sessions/controller"
	"absensi_backend/internals/features/attendances/sessions/repository"
	"absensi_backend/internals/features/attendances/sessions/service"
	employeeRepo "absensi_backend/internals/features/users/employees/repository"
	"absensi_backend/internals/helpers/dbtime"
	helperOSS "absensi_backend/internals/helpers/oss"
)

type fakeDir struct {
	info map[uuid.UUID]employeeRepo.Info
}

func (d *fakeDir) Lookup(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]employeeRepo.Info, error) {
	out := map[uuid.UUID]employeeRepo.Info{}
	for _, id := range ids {
		if v, ok := d.info[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (d *fakeDir) ActiveIDs(context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(d.info))
	for id := range d.info {
		ids = append(ids, id)
	}
	return ids, nil
}

type memEvidence struct {
	mu    sync.Mutex
	count int
}

func (m *memEvidence) Save(_ context.Context, userID uuid.UUID, event string, photo []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
	return fmt.Sprintf("mem://%s/%s/%d", userID, event, m.count), nil
}

type testEnv struct {
	app    *fiber.App
	now    time.Time
	mu     sync.Mutex
	worker uuid.UUID
	idle   uuid.UUID
	admin  uuid.UUID
	photos *memEvidence
}

func (e *testEnv) clock() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.now
}

func (e *testEnv) set(t time.Time) {
	e.mu.Lock()
	e.now = t
	e.mu.Unlock()
}

func wib(d, h, m int) time.Time {
	return time.Date(2025, time.March, d, h, m, 0, 0, dbtime.JakartaLocation())
}

// newEnv: evidence opsional, default memEvidence (env.photos).
func newEnv(t *testing.T, evidence ...service.EvidenceStore) *testEnv {
	t.Helper()
	env := &testEnv{
		now:    wib(10, 6, 50),
		worker: uuid.New(),
		idle:   uuid.New(),
		admin:  uuid.New(),
		photos: &memEvidence{},
	}
	var store service.EvidenceStore = env.photos
	if len(evidence) > 0 {
		store = evidence[0]
	}
	svc := service.NewAttendanceService(repository.NewMemoryStore(), store, configs.DefaultShiftPolicy(),
		service.WithClock(env.clock))
	dir := &fakeDir{info: map[uuid.UUID]employeeRepo.Info{
		env.worker: {FullName: "Budi", Email: "budi@example.com", DefaultShift: "Shift 1"},
		env.idle:   {FullName: "Ani", Email: "ani@example.com", DefaultShift: "Management"},
	}}
	ctrl := controller.NewAttendanceController(svc, dir)

	app := fiber.New()
	// Header X-Test-User menggantikan JWT.
	app.Use(func(c *fiber.Ctx) error {
		if uid := c.Get("X-Test-User"); uid != "" {
			c.Locals("user_id", uid)
		}
		return c.Next()
	})
	u := app.Group("/api/u/attendance")
	u.Get("/today", ctrl.Today)
	u.Get("/history", ctrl.History)
	u.Post("/clock-in", ctrl.ClockIn)
	u.Post("/clock-out", ctrl.ClockOut)
	u.Post("/break-start", ctrl.BreakStart)
	u.Post("/break-end", ctrl.BreakEnd)
	u.Post("/permit", ctrl.Permit)
	u.Post("/resume", ctrl.Resume)

	a := app.Group("/api/a/attendance")
	a.Get("/sessions", ctrl.AdminSessions)
	a.Get("/recap", ctrl.Recap)
	a.Get("/recap/export", ctrl.ExportRecap)
	a.Post("/sweep", ctrl.Sweep)

	env.app = app
	return env
}

type envelope struct {
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	ErrorCode string         `json:"error_code"`
	Data      map[string]any `json:"data"`
}

func (e *testEnv) do(t *testing.T, method, path string, user uuid.UUID, body io.Reader, contentType string) (*http.Response, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if user != uuid.Nil {
		req.Header.Set("X-Test-User", user.String())
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	if strings.HasPrefix(resp.Header.Get("Content-Type"), fiber.MIMEApplicationJSON) {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, sonic.Unmarshal(raw, &env))
	}
	return resp, env
}

func (e *testEnv) postJSON(t *testing.T, path string, user uuid.UUID, body string) (*http.Response, envelope) {
	return e.do(t, http.MethodPost, path, user, strings.NewReader(body), fiber.MIMEApplicationJSON)
}

func pngPhoto(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestClockInUsesProfileShiftAndRejectsSecond(t *testing.T) {
	env := newEnv(t)

	resp, body := env.postJSON(t, "/api/u/attendance/clock-in", env.worker, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Shift 1", body.Data["shift"])
	assert.Equal(t, "present", body.Data["status"])
	assert.EqualValues(t, 1, body.Data["session_number"])

	resp, body = env.postJSON(t, "/api/u/attendance/clock-in", env.worker, `{"shift":"Shift 1"}`)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, string(service.KindSessionConflict), body.ErrorCode)
}

func TestClockInMultipartStoresPhoto(t *testing.T) {
	env := newEnv(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("location", "-6.2,106.8"))
	fw, err := w.CreateFormFile("photo", "selfie.png")
	require.NoError(t, err)
	_, err = fw.Write(pngPhoto(t))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	resp, body := env.do(t, http.MethodPost, "/api/u/attendance/clock-in", env.worker, &buf, w.FormDataContentType())
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "-6.2,106.8", body.Data["check_in_location"])
	assert.Contains(t, body.Data["check_in_photo_url"], "mem://")
	assert.Equal(t, 1, env.photos.count)
}

func multipartPhoto(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestClockInRejectsCorruptPhoto(t *testing.T) {
	for _, name := range []string{"selfie.jpg", "selfie.png", "selfie.webp", "selfie.gif"} {
		t.Run(name, func(t *testing.T) {
			env := newEnv(t, helperOSS.NoopEvidenceStore{})
			body, ct := multipartPhoto(t, name, []byte("ini jelas bukan gambar"))

			resp, out := env.do(t, http.MethodPost, "/api/u/attendance/clock-in", env.worker, body, ct)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "BAD_REQUEST", out.ErrorCode)

			// sesi tidak boleh tercipta
			_, today := env.do(t, http.MethodGet, "/api/u/attendance/today", env.worker, nil, "")
			assert.Equal(t, "no_session", today.Data["phase"])
		})
	}
}

func TestClockOutWithoutSession(t *testing.T) {
	env := newEnv(t)
	resp, body := env.postJSON(t, "/api/u/attendance/clock-out", env.worker, "{}")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, string(service.KindNoActiveSession), body.ErrorCode)
}

func TestPermitValidation(t *testing.T) {
	env := newEnv(t)
	resp, body := env.postJSON(t, "/api/u/attendance/permit", env.worker, `{"type":"liburan"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body.ErrorCode)
}

func TestPermitAcceptsMixedCaseType(t *testing.T) {
	env := newEnv(t)
	resp, body := env.postJSON(t, "/api/u/attendance/permit", env.worker, `{"type":" Sick ","notes":"demam"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "sick", body.Data["status"])

	resp, body = env.postJSON(t, "/api/u/attendance/permit", env.idle, `{"type":"IZIN"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "permission", body.Data["status"])
}

func TestUnauthenticated(t *testing.T) {
	env := newEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/u/attendance/today", uuid.Nil, nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestFullDayThroughHTTP(t *testing.T) {
	env := newEnv(t)

	steps := []struct {
		at   time.Time
		path string
		body string
		want int
	}{
		{wib(10, 7, 30), "/api/u/attendance/clock-in", "", fiber.StatusCreated},
		{wib(10, 12, 0), "/api/u/attendance/break-start", "", fiber.StatusOK},
		{wib(10, 12, 0), "/api/u/attendance/break-start", "", fiber.StatusConflict},
		{wib(10, 13, 0), "/api/u/attendance/break-end", "", fiber.StatusOK},
		{wib(10, 14, 0), "/api/u/attendance/permit", `{"type":"izin","notes":"ke bank"}`, fiber.StatusOK},
		{wib(10, 15, 0), "/api/u/attendance/resume", "", fiber.StatusCreated},
		{wib(10, 17, 0), "/api/u/attendance/clock-out", "", fiber.StatusOK},
	}
	for _, s := range steps {
		env.set(s.at)
		resp, body := env.postJSON(t, s.path, env.worker, s.body)
		require.Equalf(t, s.want, resp.StatusCode, "%s: %s", s.path, body.Message)
	}

	resp, body := env.do(t, http.MethodGet, "/api/u/attendance/today", env.worker, nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "2025-03-10", body.Data["business_date"])
	assert.Equal(t, "closed", body.Data["phase"])
	sessions, ok := body.Data["sessions"].([]any)
	require.True(t, ok)
	assert.Len(t, sessions, 2)

	// 07:30-14:00 dikurangi istirahat 60 menit, lalu 15:00-17:00.
	summary := body.Data["summary"].(map[string]any)
	assert.EqualValues(t, 390+120, summary["total_work_mins"])
	assert.EqualValues(t, 60, summary["total_break_mins"])
	assert.EqualValues(t, 390+120-60, summary["net_work_mins"])

	resp, body = env.do(t, http.MethodGet, "/api/u/attendance/history?from=2025-03-01&to=2025-03-31", env.worker, nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	days := body.Data["days"].([]any)
	require.Len(t, days, 1)
}

func TestHistoryRejectsBadDate(t *testing.T) {
	env := newEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/u/attendance/history?from=10-03-2025", env.worker, nil, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAdminRecapIncludesIdleEmployee(t *testing.T) {
	env := newEnv(t)
	env.set(wib(10, 8, 0))
	resp, _ := env.postJSON(t, "/api/u/attendance/clock-in", env.worker, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	env.set(wib(10, 16, 0))
	resp, _ = env.postJSON(t, "/api/u/attendance/clock-out", env.worker, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/api/a/attendance/recap?month=2025-03", env.admin, nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "2025-03-01", body.Data["from"])
	assert.Equal(t, "2025-03-31", body.Data["to"])

	emps := body.Data["employees"].([]any)
	require.Len(t, emps, 2)
	first := emps[0].(map[string]any)
	second := emps[1].(map[string]any)
	assert.Equal(t, "Ani", first["full_name"])
	assert.EqualValues(t, 0, first["session_count"])
	assert.Equal(t, "Budi", second["full_name"])
	assert.EqualValues(t, 1, second["late_count"])
	assert.EqualValues(t, 480, second["net_work_mins"])
}

func TestAdminSessionsPaginated(t *testing.T) {
	env := newEnv(t)
	env.set(wib(10, 6, 0))
	env.postJSON(t, "/api/u/attendance/clock-in", env.worker, "")
	env.postJSON(t, "/api/u/attendance/clock-in", env.idle, "")

	req := httptest.NewRequest(http.MethodGet, "/api/a/attendance/sessions?from=2025-03-10&to=2025-03-10&per_page=1", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Data       []map[string]any `json:"data"`
		Pagination struct {
			Total   int64 `json:"total"`
			HasNext bool  `json:"has_next"`
		} `json:"pagination"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, sonic.Unmarshal(raw, &out))
	assert.Len(t, out.Data, 1)
	assert.EqualValues(t, 2, out.Pagination.Total)
	assert.True(t, out.Pagination.HasNext)
	assert.NotEmpty(t, out.Data[0]["user_full_name"])
}

func TestExportRecapWorkbook(t *testing.T) {
	env := newEnv(t)
	env.set(wib(10, 6, 0))
	env.postJSON(t, "/api/u/attendance/clock-in", env.worker, "")

	req := httptest.NewRequest(http.MethodGet, "/api/a/attendance/recap/export?month=2025-03", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "rekap-absensi-2025-03.xlsx")

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Rekap")
	assert.Contains(t, f.GetSheetList(), "Detail Sesi")
}

func TestSweepEndpoint(t *testing.T) {
	env := newEnv(t)
	env.set(wib(10, 8, 0))
	env.postJSON(t, "/api/u/attendance/clock-in", env.worker, "")

	env.set(wib(11, 5, 0))
	resp, body := env.postJSON(t, "/api/a/attendance/sweep", env.admin, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body.Data["closed"])
}
