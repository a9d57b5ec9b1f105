package repository

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/swim-school-site/internal/models"
	appErrors "github.com/noah-isme/swim-school-site/pkg/errors"
)

func TestNewCatalogRepositoryLoadsEmbeddedData(t *testing.T) {
	repo, err := NewCatalogRepository()
	require.NoError(t, err)

	courses := repo.Courses()
	require.NotEmpty(t, courses)
	require.Equal(t, "baby", courses[0].ID)

	course, err := repo.Course("baby")
	require.NoError(t, err)
	require.Equal(t, "Babysvømming", course.Title)

	days := repo.Schedule()
	require.Len(t, days, 3)
	require.Equal(t, "Onsdag", days[1].Day)

	want := models.ScheduleSession{
		Time:     "15:00 - 15:30",
		Level:    "Babysvømming",
		AgeGroup: "Nybegynner",
		CourseID: "baby",
		Spots:    models.SpotsCount(5),
	}
	if diff := cmp.Diff(want, days[1].Sessions[2]); diff != "" {
		t.Fatalf("session mismatch (-want +got):\n%s", diff)
	}
	require.True(t, days[1].Sessions[0].IsHeader())
	require.False(t, days[1].Sessions[0].Selectable())
	require.False(t, days[1].Sessions[1].Selectable())
	require.Equal(t, "Venteliste", days[0].Sessions[2].Spots.Status)

	_, err = repo.Article("hostsemesteret-er-klart")
	require.NoError(t, err)
	_, err = repo.Region("baerum")
	require.NoError(t, err)
	_, err = repo.Page("vilkar")
	require.NoError(t, err)
}

func TestCatalogRepositoryNotFound(t *testing.T) {
	repo, err := NewCatalogRepository()
	require.NoError(t, err)

	_, err = repo.Course("missing")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	_, err = repo.Article("missing")
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	_, _, err = repo.Session("Onsdag", 99)
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestCatalogRepositorySessionLookup(t *testing.T) {
	repo, err := NewCatalogRepository()
	require.NoError(t, err)

	day, session, err := repo.Session("onsdag", 2)
	require.NoError(t, err)
	require.Equal(t, "Onsdag", day.Day)
	require.Equal(t, "15:00 - 15:30", session.Time)
}

func TestLoadCatalogValidation(t *testing.T) {
	const header = "day,start_date,duration_note,time,level,age_group,course_id,spots\n"

	cases := map[string]struct {
		content  string
		schedule string
	}{
		"no courses": {
			content:  "courses: []\n",
			schedule: header,
		},
		"duplicate ids": {
			content:  "courses:\n  - id: a\n    title: A\n  - id: a\n    title: B\n",
			schedule: header,
		},
		"unknown schedule course": {
			content:  "courses:\n  - id: a\n    title: A\n",
			schedule: header + "Mandag,,,10:00,A,,b,3\n",
		},
		"unknown region course": {
			content:  "courses:\n  - id: a\n    title: A\nregions:\n  - slug: r\n    course_ids: [b]\n",
			schedule: header,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCatalog([]byte(tc.content), []byte(tc.schedule))
			require.Error(t, err)
		})
	}
}

func TestLoadCatalogGroupsRowsByDay(t *testing.T) {
	content := "courses:\n  - id: a\n    title: A\n"
	schedule := "day,start_date,duration_note,time,level,age_group,course_id,spots\n" +
		"Mandag,1. sep,30 min,10:00,A,,a,1\n" +
		"Tirsdag,2. sep,30 min,11:00,A,,,Fullt\n" +
		"Mandag,1. sep,30 min,12:00,A,,a,2\n"

	repo, err := LoadCatalog([]byte(content), []byte(schedule))
	require.NoError(t, err)

	days := repo.Schedule()
	require.Len(t, days, 2)
	require.Equal(t, "Mandag", days[0].Day)
	require.Len(t, days[0].Sessions, 2)
	require.Equal(t, "12:00", days[0].Sessions[1].Time)
	require.Equal(t, models.SpotsStatus("Fullt"), days[1].Sessions[0].Spots)
}
