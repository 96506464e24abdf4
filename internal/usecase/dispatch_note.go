package usecase

import (
	"context"
	"fmt"
	"strings"

	"lifeos/internal/domain"
	"lifeos/internal/intent"
	"lifeos/internal/store"
)

const maxDerivedTitle = 40

func noteID(n domain.Note) string   { return n.ID }
func noteName(n domain.Note) string { return n.Title }

func (d *Dispatcher) findNote(ctx context.Context, p intent.NotePayload) (domain.Note, bool, error) {
	notes, err := d.stores.Notes.List(ctx)
	if err != nil {
		return domain.Note{}, false, listErr("notes", err)
	}
	live := filter(notes, func(n domain.Note) bool { return !n.Trashed })
	n, ok := resolveBySubstring(live, p.ID, p.Title, noteID, noteName)
	return n, ok, nil
}

func (d *Dispatcher) addNote(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.NotePayload)
	title := p.Title
	if title == "" {
		title = deriveTitle(p.Content)
	}
	if title == "" {
		return invalid(in.Action, "a note needs a title or content"), nil
	}
	n := domain.Note{
		Title:     title,
		Content:   p.Content,
		Tags:      p.Tags,
		UpdatedAt: d.now(),
	}
	if p.Pinned != nil {
		n.Pinned = *p.Pinned
	}
	if p.Archived != nil {
		n.Archived = *p.Archived
	}
	if _, err := d.stores.Notes.Create(ctx, n); err != nil {
		return Outcome{}, fmt.Errorf("create note: %w", err)
	}
	return applied(in.Action, n.Title), nil
}

func deriveTitle(content string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	line = strings.TrimSpace(line)
	if r := []rune(line); len(r) > maxDerivedTitle {
		line = strings.TrimSpace(string(r[:maxDerivedTitle]))
	}
	return line
}

func (d *Dispatcher) updateNote(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.NotePayload)
	patch := store.Patch{}
	if p.NewTitle != "" {
		patch["title"] = p.NewTitle
	}
	if p.Content != "" {
		patch["content"] = p.Content
	}
	if len(p.Tags) > 0 {
		patch["tags"] = p.Tags
	}
	if p.Pinned != nil {
		patch["pinned"] = *p.Pinned
	}
	if p.Archived != nil {
		patch["archived"] = *p.Archived
	}
	if len(patch) == 0 {
		return invalid(in.Action, "nothing to change"), nil
	}
	return d.patchNote(ctx, in.Action, p, patch)
}

func (d *Dispatcher) appendNote(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.NotePayload)
	if p.Content == "" {
		return invalid(in.Action, "there is nothing to append"), nil
	}
	n, ok, err := d.findNote(ctx, p)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return noMatch(in.Action, p.Title), nil
	}
	content := p.Content
	if existing := strings.TrimRight(n.Content, "\n"); existing != "" {
		content = existing + "\n" + p.Content
	}
	if err := d.stores.Notes.Update(ctx, n.ID, store.Patch{"content": content, "updated_at": d.now()}); err != nil {
		return Outcome{}, fmt.Errorf("append to note %s: %w", n.ID, err)
	}
	return applied(in.Action, n.Title), nil
}

func (d *Dispatcher) pinNote(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.NotePayload)
	pinned := true
	if p.Pinned != nil {
		pinned = *p.Pinned
	}
	return d.patchNote(ctx, in.Action, p, store.Patch{"pinned": pinned})
}

func (d *Dispatcher) archiveNote(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.NotePayload)
	archived := true
	if p.Archived != nil {
		archived = *p.Archived
	}
	return d.patchNote(ctx, in.Action, p, store.Patch{"archived": archived})
}

// deleteNote moves the note to the trash. Trashed notes are not resolvable,
// so repeating the delete is a no-match.
func (d *Dispatcher) deleteNote(ctx context.Context, in intent.Intent) (Outcome, error) {
	p := in.Payload.(intent.NotePayload)
	return d.patchNote(ctx, in.Action, p, store.Patch{"trashed": true})
}

func (d *Dispatcher) patchNote(ctx context.Context, a intent.Action, p intent.NotePayload, patch store.Patch) (Outcome, error) {
	n, ok, err := d.findNote(ctx, p)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return noMatch(a, p.Title), nil
	}
	patch["updated_at"] = d.now()
	if err := d.stores.Notes.Update(ctx, n.ID, patch); err != nil {
		return Outcome{}, fmt.Errorf("update note %s: %w", n.ID, err)
	}
	return applied(a, n.Title), nil
}
