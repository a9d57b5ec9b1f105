package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/swim-school-site/internal/dto"
	"github.com/noah-isme/swim-school-site/internal/models"
	appErrors "github.com/noah-isme/swim-school-site/pkg/errors"
	"github.com/noah-isme/swim-school-site/pkg/mailer"
)

// WizardStore persists wizard state between requests.
type WizardStore interface {
	Create(ctx context.Context, state *models.WizardState) error
	Get(ctx context.Context, id string) (*models.WizardState, error)
	Update(ctx context.Context, id string, fn func(*models.WizardState) error) (*models.WizardState, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type wizardCatalog interface {
	Session(day string, index int) (*models.ScheduleDay, *models.ScheduleSession, error)
}

type courseResolver interface {
	Resolve(label, hint string) ResolvedCourse
	ResolveSelection(sel models.CourseSelection, label string) ResolvedCourse
}

type formDispatcher interface {
	Dispatch(ctx context.Context, form models.EnrollmentForm) (*mailer.DeliveryResult, error)
}

type wizardMetrics interface {
	ObserveWizardTransition(action, outcome string)
	ObserveSubmission(result string)
}

// SuccessCallback runs after a submission has been delivered and the success delay has passed.
type SuccessCallback func(ctx context.Context, summary models.SubmissionSummary)

// WizardServiceConfig tunes the submission lifecycle.
type WizardServiceConfig struct {
	SuccessDelay time.Duration
}

// WizardService drives enrollment wizards on behalf of clients.
type WizardService struct {
	store      WizardStore
	catalog    wizardCatalog
	resolver   courseResolver
	dispatcher formDispatcher
	wizard     *Wizard
	metrics    wizardMetrics
	logger     *zap.Logger
	cfg        WizardServiceConfig

	now   func() time.Time
	sleep func(time.Duration)

	mu        sync.RWMutex
	callbacks []SuccessCallback
}

// NewWizardService constructs the service.
func NewWizardService(
	store WizardStore,
	catalog wizardCatalog,
	resolver courseResolver,
	dispatcher formDispatcher,
	wizard *Wizard,
	metrics wizardMetrics,
	logger *zap.Logger,
	cfg WizardServiceConfig,
) *WizardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if wizard == nil {
		wizard = NewWizard(nil, WizardTimings{})
	}
	if cfg.SuccessDelay < 0 {
		cfg.SuccessDelay = 0
	}
	return &WizardService{
		store:      store,
		catalog:    catalog,
		resolver:   resolver,
		dispatcher: dispatcher,
		wizard:     wizard,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
		now:        func() time.Time { return time.Now().UTC() },
		sleep:      time.Sleep,
	}
}

// OnSuccess registers a callback fired after every delivered submission.
func (s *WizardService) OnSuccess(cb SuccessCallback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, cb)
}

// Open starts a new wizard pre-filled from a schedule slot or a label.
func (s *WizardService) Open(ctx context.Context, req dto.OpenWizardRequest) (*models.WizardState, error) {
	label, sel, err := s.prefill(req)
	if err != nil {
		s.observe("open", err)
		return nil, err
	}
	state := s.wizard.Start(uuid.NewString(), label, sel, s.now())
	if req.InquiryType != "" {
		if !req.InquiryType.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown inquiry type %q", req.InquiryType))
		}
		state.Form.InquiryType = req.InquiryType
	}
	if err := s.store.Create(ctx, state); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store wizard")
	}
	s.observe("open", nil)
	s.logger.Debug("wizard opened", zap.String("wizard_id", state.ID), zap.String("label", label))
	return state, nil
}

// Get returns the current state of a wizard.
func (s *WizardService) Get(ctx context.Context, id string) (*models.WizardState, error) {
	return s.store.Get(ctx, id)
}

// UpdateFields applies form edits.
func (s *WizardService) UpdateFields(ctx context.Context, id string, patch FormPatch) (*models.WizardState, error) {
	return s.transition(ctx, id, "update", func(st *models.WizardState) error {
		return s.wizard.SetFields(st, patch, s.now())
	})
}

// Next validates the current step and advances. A rejected step is persisted so its errors and feedback survive.
func (s *WizardService) Next(ctx context.Context, id string) (*models.WizardState, error) {
	return s.transitionKeepingRejection(ctx, id, "next", func(st *models.WizardState) error {
		return s.wizard.Next(st, s.now())
	})
}

// Back returns to the previous step.
func (s *WizardService) Back(ctx context.Context, id string) (*models.WizardState, error) {
	return s.transition(ctx, id, "back", func(st *models.WizardState) error {
		return s.wizard.Back(st, s.now())
	})
}

// JumpTo moves to target, validating intervening steps when moving forward.
func (s *WizardService) JumpTo(ctx context.Context, id string, target models.Step) (*models.WizardState, error) {
	return s.transitionKeepingRejection(ctx, id, "jump", func(st *models.WizardState) error {
		return s.wizard.JumpTo(st, target, s.now())
	})
}

// ChangeCourse applies a new course pre-fill, resetting the form.
func (s *WizardService) ChangeCourse(ctx context.Context, id string, req dto.OpenWizardRequest) (*models.WizardState, error) {
	label, sel, err := s.prefill(req)
	if err != nil {
		s.observe("change_course", err)
		return nil, err
	}
	return s.transition(ctx, id, "change_course", func(st *models.WizardState) error {
		return s.wizard.ChangeCourse(st, label, sel, s.now())
	})
}

// Close discards the wizard and everything entered into it.
func (s *WizardService) Close(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	s.observe("close", err)
	return err
}

// Submit dispatches the form from the review step. A form that fails an earlier step's rules
// is stored back on that step and ErrStepInvalid is returned without dispatching. On success
// the wizard is closed after the success delay and callbacks receive the summary; on failure
// the wizard returns to idle intact.
// The dispatch is not cancelled when the caller goes away.
func (s *WizardService) Submit(ctx context.Context, id string) (*models.SubmissionSummary, error) {
	state, err := s.updateKeepingRejection(ctx, id, func(st *models.WizardState) error {
		return s.wizard.BeginSubmit(st, s.now())
	})
	if err != nil {
		s.observe("submit", err)
		return nil, err
	}

	detached := context.WithoutCancel(ctx)
	if _, err := s.dispatcher.Dispatch(detached, state.Form); err != nil {
		s.finish(detached, id, false)
		s.observe("submit", err)
		s.observeSubmission("failed")
		return nil, err
	}
	s.finish(detached, id, true)
	s.observe("submit", nil)
	s.observeSubmission("delivered")

	summary := models.SubmissionSummary{
		WizardID:       id,
		ChildFirstName: state.Form.ChildFirstName,
		SelectedCourse: state.Form.SelectedCourse,
		InquiryType:    state.Form.InquiryType,
		Selection:      state.Selection,
		Form:           state.Form,
		SubmittedAt:    s.now(),
	}

	if s.cfg.SuccessDelay > 0 {
		s.sleep(s.cfg.SuccessDelay)
	}
	s.fireCallbacks(detached, summary)

	if err := s.store.Delete(detached, id); err != nil && !errors.Is(err, appErrors.ErrNotFound) {
		s.logger.Warn("failed to close submitted wizard", zap.String("wizard_id", id), zap.Error(err))
	}
	return &summary, nil
}

// Ready reports whether the wizard store is reachable.
func (s *WizardService) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// View renders the client snapshot of state.
func (s *WizardService) View(state *models.WizardState) dto.WizardView {
	now := s.now()
	view := dto.WizardView{
		ID:         state.ID,
		Step:       state.Step,
		StepName:   state.Step.String(),
		TotalSteps: int(models.LastStep),
		Status:     state.Status,
		Form:       state.Form,
		Errors:     state.Errors,
		CanGoBack:  state.Step > models.FirstStep && state.Status == models.SubmitIdle,
		CanSubmit:  state.Step == models.LastStep && state.Status == models.SubmitIdle,
	}
	if view.Errors == nil {
		view.Errors = map[string]string{}
	}
	if fb := state.Feedback; fb.Active(now) {
		view.Feedback = &dto.FeedbackView{
			Message: fb.Message,
			ShakeMs: remainingMs(fb.ShakeUntil, now),
			ToastMs: remainingMs(fb.ToastUntil, now),
		}
	}
	if state.Selection != nil || state.Form.SelectedCourse != "" {
		card := CourseCard(s.resolve(state.Selection, state.Form.SelectedCourse), state.Form.SelectedCourse)
		view.Course = &card
	}
	return view
}

func (s *WizardService) resolve(sel *models.CourseSelection, label string) ResolvedCourse {
	if sel != nil {
		return s.resolver.ResolveSelection(*sel, label)
	}
	return s.resolver.Resolve(label, "")
}

// CourseCard renders a resolved course as a card.
func CourseCard(resolved ResolvedCourse, label string) dto.CourseCardView {
	card := dto.CourseCardView{
		ID:       resolved.Course.ID,
		Title:    resolved.Course.Title,
		Image:    resolved.Course.Image,
		Icon:     resolved.Course.Icon,
		Label:    label,
		AgeText:  resolved.AgeText,
		Day:      resolved.Day,
		Time:     resolved.Time,
		Price:    resolved.Course.Details.Price,
		Location: resolved.Course.Details.Location,
	}
	if resolved.Session != nil {
		card.SpotsText = FormatSpots(resolved.Session.Spots)
	}
	return card
}

func (s *WizardService) prefill(req dto.OpenWizardRequest) (string, *models.CourseSelection, error) {
	if req.SessionRef != nil {
		day, session, err := s.catalog.Session(req.SessionRef.Day, req.SessionRef.Index)
		if err != nil {
			return "", nil, err
		}
		if !session.Selectable() {
			return "", nil, appErrors.Clone(appErrors.ErrValidation, "this session cannot be booked")
		}
		return ComposeLabel(day.Day, *session), &models.CourseSelection{
			CourseID: session.CourseID,
			Level:    session.Level,
			AgeGroup: session.AgeGroup,
			Day:      day.Day,
			Time:     session.Time,
		}, nil
	}

	label := strings.TrimSpace(req.Label)
	hint := strings.TrimSpace(req.Hint)
	if label == "" && hint == "" {
		return "", nil, nil
	}
	resolved := s.resolver.Resolve(label, hint)
	if label == "" {
		label = resolved.Course.Title
	}
	sel := resolved.Selection()
	return label, &sel, nil
}

func (s *WizardService) transition(ctx context.Context, id, action string, fn func(*models.WizardState) error) (*models.WizardState, error) {
	state, err := s.store.Update(ctx, id, fn)
	s.observe(action, err)
	if err != nil {
		return nil, err
	}
	return state, nil
}

// transitionKeepingRejection persists the step errors and feedback of a rejected Next or JumpTo.
func (s *WizardService) transitionKeepingRejection(ctx context.Context, id, action string, fn func(*models.WizardState) error) (*models.WizardState, error) {
	state, err := s.updateKeepingRejection(ctx, id, fn)
	s.observe(action, err)
	return state, err
}

// updateKeepingRejection writes the state even when fn rejects a step. The rejected state is
// returned together with ErrStepInvalid; any other error discards the update.
func (s *WizardService) updateKeepingRejection(ctx context.Context, id string, fn func(*models.WizardState) error) (*models.WizardState, error) {
	var rejection error
	state, err := s.store.Update(ctx, id, func(st *models.WizardState) error {
		if err := fn(st); err != nil {
			if errors.Is(err, appErrors.ErrStepInvalid) {
				rejection = err
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return state, rejection
}

func (s *WizardService) finish(ctx context.Context, id string, delivered bool) {
	_, err := s.store.Update(ctx, id, func(st *models.WizardState) error {
		s.wizard.FinishSubmit(st, delivered, s.now())
		return nil
	})
	if err != nil && !errors.Is(err, appErrors.ErrNotFound) {
		s.logger.Warn("failed to record submission outcome", zap.String("wizard_id", id), zap.Bool("delivered", delivered), zap.Error(err))
	}
}

func (s *WizardService) fireCallbacks(ctx context.Context, summary models.SubmissionSummary) {
	s.mu.RLock()
	callbacks := append([]SuccessCallback(nil), s.callbacks...)
	s.mu.RUnlock()

	for _, cb := range callbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("submission callback panicked", zap.Any("panic", r), zap.String("wizard_id", summary.WizardID))
				}
			}()
			cb(ctx, summary)
		}()
	}
}

func (s *WizardService) observe(action string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = strings.ToLower(appErrors.FromError(err).Code)
	}
	s.metrics.ObserveWizardTransition(action, outcome)
}

func (s *WizardService) observeSubmission(result string) {
	if s.metrics != nil {
		s.metrics.ObserveSubmission(result)
	}
}

func remainingMs(until, now time.Time) int64 {
	if !until.After(now) {
		return 0
	}
	return until.Sub(now).Milliseconds()
}
