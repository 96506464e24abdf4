package domain

type StudyStatus string

const (
	StudyNotStarted StudyStatus = "not-started"
	StudyInProgress StudyStatus = "in-progress"
	StudyCompleted  StudyStatus = "completed"
)

// ValidStudyStatus reports whether s is a known study status.
func ValidStudyStatus(s string) bool {
	switch StudyStatus(s) {
	case StudyNotStarted, StudyInProgress, StudyCompleted:
		return true
	}
	return false
}

type StudySubject struct {
	ID     string
	UserID string
	Name   string
	Preset string
	Status StudyStatus
}

type StudyChapter struct {
	ID        string
	UserID    string
	SubjectID string
	Name      string
	Status    StudyStatus
	Position  int
}

type StudyPart struct {
	ID        string
	UserID    string
	ChapterID string
	Name      string
	Status    StudyStatus
}

// Progress is completed over total study units for one subject. Parts are
// counted when the subject has any; otherwise chapters are.
func Progress(subjectID string, chapters []StudyChapter, parts []StudyPart) (done, total int) {
	chapterIDs := make(map[string]bool)
	var chDone, chTotal int
	for _, c := range chapters {
		if c.SubjectID != subjectID {
			continue
		}
		chapterIDs[c.ID] = true
		chTotal++
		if c.Status == StudyCompleted {
			chDone++
		}
	}
	for _, p := range parts {
		if !chapterIDs[p.ChapterID] {
			continue
		}
		total++
		if p.Status == StudyCompleted {
			done++
		}
	}
	if total == 0 {
		return chDone, chTotal
	}
	return done, total
}
