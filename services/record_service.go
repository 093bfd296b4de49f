package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/K-Thour/PointsServer/metrics"
	"github.com/K-Thour/PointsServer/models"
	"github.com/K-Thour/PointsServer/utils"

	"go.uber.org/zap"
)

// RecordEvents is notified after a record has been stored.
type RecordEvents interface {
	RecordCreated(userID uint, rec *models.DailyRecord)
}

// SubmitInput is the raw body of a checklist submission. Both fields are
// decoded by Submit so that shape errors are reported in pipeline order.
type SubmitInput struct {
	Tasks   json.RawMessage `json:"tasks"`
	Reasons json.RawMessage `json:"reasons"`
}

type RecordService struct {
	store  *RecordStore
	events RecordEvents
	loc    *time.Location
	now    func() time.Time
	log    *zap.Logger
}

func NewRecordService(store *RecordStore, events RecordEvents, loc *time.Location, log *zap.Logger) *RecordService {
	if loc == nil {
		loc = time.Local
	}
	return &RecordService{store: store, events: events, loc: loc, now: time.Now, log: log}
}

func (s *RecordService) today() time.Time { return utils.DayStart(s.now(), s.loc) }

// Submit validates a checklist and stores it as the record for the given day
// (today when rawDate is empty).
func (s *RecordService) Submit(ctx context.Context, userID uint, in SubmitInput, rawDate string) (*models.DailyRecord, error) {
	tasks, err := decodeTasks(in.Tasks)
	if err != nil {
		return nil, Malformed(MsgTasksNotObject)
	}

	for _, name := range models.RequiredTasks {
		if _, ok := tasks[name]; !ok {
			return nil, Malformed("Missing task: " + name)
		}
	}

	reasons := decodeReasons(in.Reasons)
	for _, name := range models.RequiredTasks {
		if !tasks[name] && strings.TrimSpace(reasons[name]) == "" {
			return nil, Malformed(fmt.Sprintf("Reason is required for not completing %q", name))
		}
	}

	date := s.today()
	if rawDate != "" {
		if date, err = utils.ParseDay(rawDate, s.loc); err != nil {
			return nil, Malformed(MsgInvalidDate)
		}
	}

	rec := &models.DailyRecord{
		UserID:      userID,
		Date:        date,
		Tasks:       tasks,
		Reasons:     reasons,
		TotalPoints: tasks.Points(),
	}
	if err := s.store.Create(ctx, rec); err != nil {
		if errors.Is(err, ErrDuplicateRecord) {
			return nil, Conflict(MsgDuplicateRecord)
		}
		return nil, Internal(err)
	}

	metrics.RecordSubmitted(rec.TotalPoints)
	s.log.Info("daily record submitted",
		zap.Uint("user_id", userID),
		zap.String("date", date.Format(utils.DateLayout)),
		zap.Int("total_points", rec.TotalPoints),
	)
	if s.events != nil {
		s.events.RecordCreated(userID, rec)
	}
	return rec, nil
}

// decodeTasks accepts only a JSON object whose values are booleans.
func decodeTasks(raw json.RawMessage) (models.Tasks, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, errors.New("tasks is not an object")
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	// json decodes null into a bool as false, so values are checked literally
	tasks := make(models.Tasks, len(entries))
	for name, v := range entries {
		switch string(bytes.TrimSpace(v)) {
		case "true":
			tasks[name] = true
		case "false":
			tasks[name] = false
		default:
			return nil, fmt.Errorf("task %q is not a boolean", name)
		}
	}
	return tasks, nil
}

// decodeReasons keeps the string entries of a JSON object. Anything else is
// treated as no reasons at all.
func decodeReasons(raw json.RawMessage) models.Reasons {
	reasons := models.Reasons{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return reasons
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return reasons
	}
	for name, v := range entries {
		var reason string
		if err := json.Unmarshal(v, &reason); err == nil {
			reasons[name] = reason
		}
	}
	return reasons
}

func (s *RecordService) Today(ctx context.Context, userID uint) (*models.DailyRecord, error) {
	rec, err := s.store.FindByDate(ctx, userID, s.today())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFound(MsgNoRecordToday)
		}
		return nil, Internal(err)
	}
	return rec, nil
}

func (s *RecordService) ByDate(ctx context.Context, userID uint, rawDate string) (*models.DailyRecord, error) {
	if strings.TrimSpace(rawDate) == "" {
		return nil, Malformed(MsgDateRequired)
	}
	date, err := utils.ParseDay(rawDate, s.loc)
	if err != nil {
		return nil, Malformed(MsgInvalidDate)
	}

	rec, err := s.store.FindByDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFound(MsgNoRecordForDate)
		}
		return nil, Internal(err)
	}
	return rec, nil
}

func (s *RecordService) History(ctx context.Context, userID uint) ([]models.DailyRecord, error) {
	recs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, Internal(err)
	}
	return recs, nil
}

// MonthlySummary lists every record since the first of the current month in
// date order. Days without a record are absent, not zero.
func (s *RecordService) MonthlySummary(ctx context.Context, userID uint) (*models.MonthlySummary, error) {
	recs, err := s.store.ListSince(ctx, userID, utils.MonthStart(s.now(), s.loc))
	if err != nil {
		return nil, Internal(err)
	}

	out := &models.MonthlySummary{DailyPoints: make([]models.DailyPoints, 0, len(recs))}
	for _, r := range recs {
		out.MonthlyTotal += r.TotalPoints
		out.DailyPoints = append(out.DailyPoints, models.DailyPoints{Date: r.Date, TotalPoints: r.TotalPoints})
	}
	return out, nil
}
