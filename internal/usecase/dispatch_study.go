package usecase

import (
	"context"
	"fmt"

	"lifeos/internal/domain"
	"lifeos/internal/intent"
	"lifeos/internal/store"
)

func subjectID(s domain.StudySubject) string   { return s.ID }
func subjectName(s domain.StudySubject) string { return s.Name }
func chapterID(c domain.StudyChapter) string   { return c.ID }
func chapterName(c domain.StudyChapter) string { return c.Name }
func partID(p domain.StudyPart) string         { return p.ID }
func partName(p domain.StudyPart) string       { return p.Name }

type studyTree struct {
	subjects []domain.StudySubject
	chapters []domain.StudyChapter
	parts    []domain.StudyPart
}

func (d *Dispatcher) loadStudy(ctx context.Context, withChapters, withParts bool) (studyTree, error) {
	var t studyTree
	var err error
	if t.subjects, err = d.stores.Subjects.List(ctx); err != nil {
		return t, listErr("study subjects", err)
	}
	if withChapters {
		if t.chapters, err = d.stores.Chapters.List(ctx); err != nil {
			return t, listErr("study chapters", err)
		}
	}
	if withParts {
		if t.parts, err = d.stores.Parts.List(ctx); err != nil {
			return t, listErr("study parts", err)
		}
	}
	return t, nil
}

// chaptersOf narrows chapters to the named subject when one is given and
// found.
func (t studyTree) chaptersOf(subject string) []domain.StudyChapter {
	if subject == "" {
		return t.chapters
	}
	s, ok := resolveBySubstring(t.subjects, "", subject, subjectID, subjectName)
	if !ok {
		return t.chapters
	}
	return filter(t.chapters, func(c domain.StudyChapter) bool { return c.SubjectID == s.ID })
}

func (t studyTree) partsOf(chapters []domain.StudyChapter, chapter string) []domain.StudyPart {
	if chapter == "" {
		return t.parts
	}
	c, ok := resolveBySubstring(chapters, "", chapter, chapterID, chapterName)
	if !ok {
		return t.parts
	}
	return filter(t.parts, func(p domain.StudyPart) bool { return p.ChapterID == c.ID })
}

func (d *Dispatcher) addStudySubject(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.StudyPayload)
	if p.Subject == "" {
		return invalid(in.Action, "a subject needs a name"), nil
	}
	s := domain.StudySubject{Name: p.Subject, Preset: p.Preset, Status: domain.StudyNotStarted}
	if p.Status != "" {
		s.Status = domain.StudyStatus(p.Status)
	}
	if _, err := d.stores.Subjects.Create(ctx, s); err != nil {
		return Outcome{}, fmt.Errorf("create study subject: %w", err)
	}
	return applied(in.Action, s.Name), nil
}

func (d *Dispatcher) addStudyChapter(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.StudyPayload)
	if p.Chapter == "" {
		return invalid(in.Action, "a chapter needs a name"), nil
	}
	t, err := d.loadStudy(ctx, true, false)
	if err != nil {
		return Outcome{}, err
	}
	s, ok := resolveBySubstring(t.subjects, p.ID, p.Subject, subjectID, subjectName)
	if !ok {
		return noMatch(in.Action, p.Subject), nil
	}
	siblings := filter(t.chapters, func(c domain.StudyChapter) bool { return c.SubjectID == s.ID })
	c := domain.StudyChapter{
		SubjectID: s.ID,
		Name:      p.Chapter,
		Status:    domain.StudyNotStarted,
		Position:  len(siblings) + 1,
	}
	if _, err := d.stores.Chapters.Create(ctx, c); err != nil {
		return Outcome{}, fmt.Errorf("create study chapter: %w", err)
	}
	return applied(in.Action, c.Name), nil
}

func (d *Dispatcher) addStudyPart(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.StudyPayload)
	if p.Part == "" {
		return invalid(in.Action, "a part needs a name"), nil
	}
	t, err := d.loadStudy(ctx, true, false)
	if err != nil {
		return Outcome{}, err
	}
	c, ok := resolveBySubstring(t.chaptersOf(p.Subject), p.ID, p.Chapter, chapterID, chapterName)
	if !ok {
		return noMatch(in.Action, p.Chapter), nil
	}
	part := domain.StudyPart{ChapterID: c.ID, Name: p.Part, Status: domain.StudyNotStarted}
	if _, err := d.stores.Parts.Create(ctx, part); err != nil {
		return Outcome{}, fmt.Errorf("create study part: %w", err)
	}
	return applied(in.Action, part.Name), nil
}

// updateStudyStatus targets the most specific level named: part, then
// chapter, then subject.
func (d *Dispatcher) updateStudyStatus(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.StudyPayload)
	if p.Status == "" {
		return invalid(in.Action, "a status is required"), nil
	}
	patch := store.Patch{"status": p.Status}

	switch {
	case p.Part != "":
		t, err := d.loadStudy(ctx, true, true)
		if err != nil {
			return Outcome{}, err
		}
		part, ok := resolveBySubstring(t.partsOf(t.chaptersOf(p.Subject), p.Chapter), p.ID, p.Part, partID, partName)
		if !ok {
			return noMatch(in.Action, p.Part), nil
		}
		if err := d.stores.Parts.Update(ctx, part.ID, patch); err != nil {
			return Outcome{}, fmt.Errorf("update study part %s: %w", part.ID, err)
		}
		return applied(in.Action, part.Name), nil

	case p.Chapter != "":
		t, err := d.loadStudy(ctx, true, false)
		if err != nil {
			return Outcome{}, err
		}
		c, ok := resolveBySubstring(t.chaptersOf(p.Subject), p.ID, p.Chapter, chapterID, chapterName)
		if !ok {
			return noMatch(in.Action, p.Chapter), nil
		}
		if err := d.stores.Chapters.Update(ctx, c.ID, patch); err != nil {
			return Outcome{}, fmt.Errorf("update study chapter %s: %w", c.ID, err)
		}
		return applied(in.Action, c.Name), nil
	}

	t, err := d.loadStudy(ctx, false, false)
	if err != nil {
		return Outcome{}, err
	}
	s, ok := resolveBySubstring(t.subjects, p.ID, p.Subject, subjectID, subjectName)
	if !ok {
		return noMatch(in.Action, p.Subject), nil
	}
	if err := d.stores.Subjects.Update(ctx, s.ID, patch); err != nil {
		return Outcome{}, fmt.Errorf("update study subject %s: %w", s.ID, err)
	}
	return applied(in.Action, s.Name), nil
}

// deleteStudySubject removes the subject and then its chapters and parts.
func (d *Dispatcher) deleteStudySubject(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.StudyPayload)
	t, err := d.loadStudy(ctx, true, true)
	if err != nil {
		return Outcome{}, err
	}
	s, ok := resolveBySubstring(t.subjects, p.ID, p.Subject, subjectID, subjectName)
	if !ok {
		return noMatch(in.Action, p.Subject), nil
	}

	sg := newSaga(in.Action)
	if err := d.stores.Subjects.Delete(ctx, s.ID); err != nil {
		return Outcome{}, fmt.Errorf("delete study subject %s: %w", s.ID, err)
	}
	sg.done("study subject "+s.ID+" deleted", nil)

	for _, c := range t.chapters {
		if c.SubjectID != s.ID {
			continue
		}
		for _, part := range t.parts {
			if part.ChapterID != c.ID {
				continue
			}
			if err := d.stores.Parts.Delete(ctx, part.ID); err != nil {
				return Outcome{}, sg.fail(ctx, fmt.Errorf("delete study part %s: %w", part.ID, err))
			}
		}
		if err := d.stores.Chapters.Delete(ctx, c.ID); err != nil {
			return Outcome{}, sg.fail(ctx, fmt.Errorf("delete study chapter %s: %w", c.ID, err))
		}
	}
	return applied(in.Action, s.Name), nil
}
