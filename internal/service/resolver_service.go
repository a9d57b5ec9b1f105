package service

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/swim-school-site/internal/models"
)

// ResolveTier names the rule that produced a resolution.
type ResolveTier string

const (
	TierHint     ResolveTier = "hint"
	TierSchedule ResolveTier = "schedule"
	TierTitle    ResolveTier = "title"
	TierDefault  ResolveTier = "default"
)

// ParsedLabel is the best-effort decomposition of a course label.
type ParsedLabel struct {
	Level    string
	AgeGroup string
	Day      string
	Time     string
}

// ResolvedCourse is the course a label maps to plus the slot details read from the label.
type ResolvedCourse struct {
	Course   models.Course           `json:"course"`
	Level    string                  `json:"level"`
	AgeGroup string                  `json:"age_group,omitempty"`
	AgeText  string                  `json:"age_text"`
	Day      string                  `json:"day"`
	Time     string                  `json:"time"`
	Session  *models.ScheduleSession `json:"session,omitempty"`
	Tier     ResolveTier             `json:"tier"`
}

// Selection converts the resolution into a structured course reference.
func (r ResolvedCourse) Selection() models.CourseSelection {
	return models.CourseSelection{
		CourseID: r.Course.ID,
		Level:    r.Level,
		AgeGroup: r.AgeGroup,
		Day:      r.Day,
		Time:     r.Time,
	}
}

type resolverCatalog interface {
	Courses() []models.Course
	Course(id string) (*models.Course, error)
	Schedule() []models.ScheduleDay
}

type resolverMetrics interface {
	ObserveResolverTier(tier string)
}

// "<Level>: <AgeGroup> (<Day> <Time>)" or "<Level> (<Day> <Time>)".
var labelPattern = regexp.MustCompile(`^\s*([^:(]+?)\s*(?::\s*([^(]*?))?\s*\(\s*(\S+)\s+([^)]+?)\s*\)\s*$`)

// ResolverService maps free-text course labels back to catalog courses. It never fails.
type ResolverService struct {
	catalog resolverCatalog
	metrics resolverMetrics
	logger  *zap.Logger
}

// NewResolverService constructs the resolver. The catalog must hold at least one course.
func NewResolverService(catalog resolverCatalog, metrics resolverMetrics, logger *zap.Logger) *ResolverService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResolverService{catalog: catalog, metrics: metrics, logger: logger}
}

// ParseLabel splits a label into level, age group, day and time.
// Labels that do not fit the usual shape are split on the first "(".
func ParseLabel(label string) ParsedLabel {
	if m := labelPattern.FindStringSubmatch(label); m != nil {
		return ParsedLabel{
			Level:    strings.TrimSpace(m[1]),
			AgeGroup: strings.TrimSpace(m[2]),
			Day:      m[3],
			Time:     strings.TrimSpace(m[4]),
		}
	}

	head, tail, found := strings.Cut(label, "(")
	parsed := ParsedLabel{Level: strings.TrimSpace(head)}
	if level, age, ok := strings.Cut(parsed.Level, ":"); ok {
		parsed.Level = strings.TrimSpace(level)
		parsed.AgeGroup = strings.TrimSpace(age)
	}
	if !found {
		return parsed
	}
	tail = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(tail), ")"))
	day, rest, _ := strings.Cut(tail, " ")
	parsed.Day = strings.TrimSpace(day)
	parsed.Time = strings.TrimSpace(rest)
	return parsed
}

// Resolve returns the best catalog match for label, preferring an explicit course id hint.
func (s *ResolverService) Resolve(label, hint string) ResolvedCourse {
	parsed := ParseLabel(label)
	session := s.findSession(parsed)

	course, tier := s.match(parsed, session, strings.TrimSpace(hint))
	if session != nil && session.CourseID != course.ID {
		// The slot belongs to another course; its spots say nothing about this one.
		session = nil
	}
	if tier == TierDefault {
		s.logger.Debug("course label fell back to default course",
			zap.String("label", label), zap.String("hint", hint), zap.String("course_id", course.ID))
	}
	if s.metrics != nil {
		s.metrics.ObserveResolverTier(string(tier))
	}

	age := parsed.AgeGroup
	if age == "" {
		age = course.AgeRange
	}
	return ResolvedCourse{
		Course:   course,
		Level:    parsed.Level,
		AgeGroup: parsed.AgeGroup,
		AgeText:  age,
		Day:      parsed.Day,
		Time:     parsed.Time,
		Session:  session,
		Tier:     tier,
	}
}

// ResolveSelection resolves a structured selection. The course id is authoritative when it exists.
func (s *ResolverService) ResolveSelection(sel models.CourseSelection, label string) ResolvedCourse {
	if sel.CourseID == "" {
		return s.Resolve(label, "")
	}
	resolved := s.Resolve(label, sel.CourseID)
	if sel.Level != "" {
		resolved.Level = sel.Level
	}
	if sel.AgeGroup != "" {
		resolved.AgeGroup = sel.AgeGroup
		resolved.AgeText = sel.AgeGroup
	}
	if sel.Day != "" {
		resolved.Day = sel.Day
	}
	if sel.Time != "" {
		resolved.Time = sel.Time
	}
	return resolved
}

func (s *ResolverService) match(parsed ParsedLabel, session *models.ScheduleSession, hint string) (models.Course, ResolveTier) {
	if hint != "" {
		if course, err := s.catalog.Course(hint); err == nil {
			return *course, TierHint
		}
	}
	if session != nil {
		if course, err := s.catalog.Course(session.CourseID); err == nil {
			return *course, TierSchedule
		}
	}
	courses := s.catalog.Courses()
	if level := strings.ToLower(parsed.Level); level != "" {
		for _, course := range courses {
			title := strings.ToLower(course.Title)
			if title == "" {
				continue
			}
			if strings.Contains(title, level) || strings.Contains(level, title) {
				return course, TierTitle
			}
		}
	}
	return courses[0], TierDefault
}

// findSession looks for the bookable slot a label was composed from.
func (s *ResolverService) findSession(parsed ParsedLabel) *models.ScheduleSession {
	if parsed.Day == "" || parsed.Time == "" {
		return nil
	}
	wantTime := normalizeTime(parsed.Time)
	for _, day := range s.catalog.Schedule() {
		if !strings.EqualFold(day.Day, parsed.Day) {
			continue
		}
		for _, session := range day.Sessions {
			if !session.Selectable() || normalizeTime(session.Time) != wantTime {
				continue
			}
			if parsed.Level != "" && !strings.EqualFold(session.Level, parsed.Level) {
				continue
			}
			found := session
			return &found
		}
	}
	return nil
}

func normalizeTime(t string) string {
	t = strings.NewReplacer("–", "-", "—", "-", ".", ":").Replace(t)
	return strings.Join(strings.Fields(t), "")
}
