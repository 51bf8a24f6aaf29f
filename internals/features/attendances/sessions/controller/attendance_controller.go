package controller

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"absensi_backend/internals/features/attendances/sessions/dto"
	"absensi_backend/internals/features/attendances/sessions/export"
	"absensi_backend/internals/features/attendances/sessions/model"
	"absensi_backend/internals/features/attendances/sessions/service"
	helper "absensi_backend/internals/helpers"
	helperOSS "absensi_backend/internals/helpers/oss"
)

type AttendanceController struct {
	Svc *service.AttendanceService
	Dir export.Directory
}

// NewAttendanceController: dir boleh nil (tanpa nama & shift default dari profil).
func NewAttendanceController(svc *service.AttendanceService, dir export.Directory) *AttendanceController {
	return &AttendanceController{Svc: svc, Dir: dir}
}

/* =========================
   Helpers
========================= */

// readEvidence: ambil file "photo" dari multipart (opsional).
func readEvidence(c *fiber.Ctx, location string) (service.Evidence, error) {
	ev := service.Evidence{Location: strings.TrimSpace(location)}

	fh, err := c.FormFile("photo")
	if err != nil || fh == nil {
		return ev, nil
	}
	if fh.Size > helperOSS.EvidenceMaxBytes {
		return ev, fiber.NewError(fiber.StatusRequestEntityTooLarge, "Ukuran foto maksimal 5MB")
	}
	f, err := fh.Open()
	if err != nil {
		return ev, fiber.NewError(fiber.StatusBadRequest, "Foto tidak bisa dibaca")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, helperOSS.EvidenceMaxBytes+1))
	if err != nil {
		return ev, fiber.NewError(fiber.StatusBadRequest, "Foto tidak bisa dibaca")
	}
	if len(data) > helperOSS.EvidenceMaxBytes {
		return ev, fiber.NewError(fiber.StatusRequestEntityTooLarge, "Ukuran foto maksimal 5MB")
	}
	ev.Photo = data
	ev.PhotoName = fh.Filename
	return ev, nil
}

// fail: error domain apa adanya, foto tidak valid → 400.
func fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, helperOSS.ErrUnsupportedImage) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Foto "+helperOSS.ErrUnsupportedImage.Error())
	}
	return helper.JsonFromError(c, err)
}

func (h *AttendanceController) defaultShift(ctx context.Context, userID uuid.UUID) string {
	if h.Dir == nil {
		return ""
	}
	info, err := h.Dir.Lookup(ctx, []uuid.UUID{userID})
	if err != nil {
		log.Printf("[WARN] lookup shift user=%s: %v", userID, err)
		return ""
	}
	return info[userID].DefaultShift
}

type evidenceAction func(ctx context.Context, userID uuid.UUID, e service.Evidence) (*model.AttendanceSessionModel, error)

// runEvidenceAction: pola umum clock-out / break-start / break-end / resume.
func (h *AttendanceController) runEvidenceAction(c *fiber.Ctx, action evidenceAction, okMsg string, created bool) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.EvidenceRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	ev, err := readEvidence(c, req.Location)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	row, err := action(c.UserContext(), userID, ev)
	if err != nil {
		return fail(c, err)
	}
	if created {
		return helper.JsonCreated(c, okMsg, dto.FromModel(row))
	}
	return helper.JsonOK(c, okMsg, dto.FromModel(row))
}

/* =========================
   Employee: /api/u/attendance
========================= */

// POST /clock-in
func (h *AttendanceController) ClockIn(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.ClockInRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	ev, err := readEvidence(c, req.Location)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	shift := strings.TrimSpace(req.Shift)
	if shift == "" {
		shift = h.defaultShift(c.UserContext(), userID)
	}

	row, err := h.Svc.ClockIn(c.UserContext(), userID, shift, ev)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonCreated(c, "Clock-in berhasil", dto.FromModel(row))
}

// POST /clock-out
func (h *AttendanceController) ClockOut(c *fiber.Ctx) error {
	return h.runEvidenceAction(c, h.Svc.ClockOut, "Clock-out berhasil", false)
}

// POST /break-start
func (h *AttendanceController) BreakStart(c *fiber.Ctx) error {
	return h.runEvidenceAction(c, h.Svc.BreakStart, "Istirahat dimulai", false)
}

// POST /break-end
func (h *AttendanceController) BreakEnd(c *fiber.Ctx) error {
	return h.runEvidenceAction(c, h.Svc.BreakEnd, "Istirahat selesai", false)
}

// POST /resume
func (h *AttendanceController) Resume(c *fiber.Ctx) error {
	return h.runEvidenceAction(c, h.Svc.Resume, "Kembali bekerja", true)
}

// POST /permit (type: sick | permission)
func (h *AttendanceController) Permit(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var req dto.PermitRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.JsonFromError(c, err)
	}
	ev, err := readEvidence(c, req.Location)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	row, err := h.Svc.Permit(c.UserContext(), userID, req.Type, req.Notes, ev)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "Izin tercatat", dto.FromModel(row))
}

type todayResponse struct {
	BusinessDate string                `json:"business_date"`
	Phase        service.Phase         `json:"phase"`
	Sessions     []dto.SessionResponse `json:"sessions"`
	Summary      service.Summary       `json:"summary"`
}

// GET /today
func (h *AttendanceController) Today(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	view, err := h.Svc.Today(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "Absensi hari ini", todayResponse{
		BusinessDate: view.BusinessDate,
		Phase:        view.Phase,
		Sessions:     dto.FromModels(view.Sessions),
		Summary:      view.Summary,
	})
}

// GET /history?from=&to=
func (h *AttendanceController) History(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	var q dto.RangeQuery
	if err := helper.BindQuery(c, &q); err != nil {
		return helper.JsonFromError(c, err)
	}
	q.ApplyDefaults(h.Svc.Now())

	days, err := h.Svc.History(c.UserContext(), userID, q.From, q.To)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "Riwayat absensi", fiber.Map{
		"from": q.From,
		"to":   q.To,
		"days": days,
	})
}

/* =========================
   Admin: /api/a/attendance
========================= */

// GET /sessions?from=&to=&user_id=&status=&page=&per_page=
func (h *AttendanceController) AdminSessions(c *fiber.Ctx) error {
	var q dto.AdminSessionQuery
	if err := helper.BindQuery(c, &q); err != nil {
		return helper.JsonFromError(c, err)
	}
	q.ApplyDefaults(h.Svc.Now())
	paging := helper.ResolvePaging(c, 50, 500)

	userIDs, err := parseUserFilter(q.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	f := service.RangeFilter{UserIDs: userIDs, From: q.From, To: q.To, Status: q.Status, Limit: paging.Limit, Offset: paging.Offset}

	rows, total, err := h.Svc.ListSessions(c.UserContext(), f)
	if err != nil {
		return fail(c, err)
	}
	data := export.WithNames(c.UserContext(), h.Dir, dto.FromModels(rows))
	return helper.JsonList(c, "Daftar sesi absensi", data, helper.BuildPagination(total, paging, len(data)))
}

// parseUserFilter: ?user_id= opsional; kosong → semua karyawan.
func parseUserFilter(raw string) ([]uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "user_id tidak valid")
	}
	return []uuid.UUID{id}, nil
}

// GET /recap?month=YYYY-MM&user_id=
func (h *AttendanceController) Recap(c *fiber.Ctx) error {
	var q dto.MonthQuery
	if err := helper.BindQuery(c, &q); err != nil {
		return helper.JsonFromError(c, err)
	}
	from, to, err := q.Range(h.Svc.Now())
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format month harus YYYY-MM")
	}

	filter, err := parseUserFilter(q.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	out, err := export.BuildRecap(c.UserContext(), h.Svc, h.Dir, from, to, filter)
	if err != nil {
		return fail(c, err)
	}
	return helper.JsonOK(c, "Rekap absensi", fiber.Map{
		"month":     q.Month,
		"from":      from,
		"to":        to,
		"employees": out,
	})
}

// GET /recap/export?month=YYYY-MM → file xlsx
func (h *AttendanceController) ExportRecap(c *fiber.Ctx) error {
	var q dto.MonthQuery
	if err := helper.BindQuery(c, &q); err != nil {
		return helper.JsonFromError(c, err)
	}
	from, to, err := q.Range(h.Svc.Now())
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Format month harus YYYY-MM")
	}

	filter, err := parseUserFilter(q.UserID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	recaps, err := export.BuildRecap(c.UserContext(), h.Svc, h.Dir, from, to, filter)
	if err != nil {
		return fail(c, err)
	}
	rows, _, err := h.Svc.ListSessions(c.UserContext(), service.RangeFilter{UserIDs: filter, From: from, To: to})
	if err != nil {
		return fail(c, err)
	}
	sessions := export.WithNames(c.UserContext(), h.Dir, dto.FromModels(rows))

	var buf bytes.Buffer
	if err := export.WriteRecapWorkbook(&buf, q.Month, recaps, sessions); err != nil {
		log.Printf("[ERROR] export rekap %s: %v", q.Month, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat file rekap")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="rekap-absensi-`+q.Month+`.xlsx"`)
	return c.Send(buf.Bytes())
}

// POST /sweep: tutup manual sesi open dari hari-hari sebelumnya.
func (h *AttendanceController) Sweep(c *fiber.Ctx) error {
	n, err := h.Svc.SweepStale(c.UserContext())
	if err != nil {
		log.Printf("[ERROR] sweep manual: %v", err)
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "Sweep selesai", fiber.Map{"closed": n})
}
