package session

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/simkung/simkung/internal/simkung"
	"github.com/spf13/afero"
)

// MaxTutors is the largest roster the setup screen allows.
const MaxTutors = 8

// MaxImageBytes bounds avatar images stored inline in the roster.
const MaxImageBytes = 2 << 20

var (
	ErrRosterFull    = fmt.Errorf("a roster holds at most %d tutors", MaxTutors)
	ErrNotImage      = errors.New("file is not an image")
	ErrImageTooLarge = fmt.Errorf("image is larger than %d bytes", MaxImageBytes)
)

// TutorDraft is the form filled in to add a tutor.
type TutorDraft struct {
	Name        string `json:"name" validate:"required"`
	Group       string `json:"group" validate:"required"`
	Personality string `json:"personality" validate:"required"`
	// ImagePath is an optional local image file used as the avatar.
	ImagePath string `json:"image"`
}

// DraftError lists the draft fields that failed validation.
type DraftError struct {
	Fields []string
}

func (e *DraftError) Error() string {
	return "missing " + strings.Join(e.Fields, ", ")
}

// Roster edits a tutor list before it is committed with CompleteSetup.
type Roster struct {
	tutors   []simkung.Tutor
	validate *validator.Validate
	fs       afero.Fs
	newID    func() string
	seed     func() int
}

// RosterOption configures a Roster.
type RosterOption func(*Roster)

// WithFs sets the filesystem avatar images are read from.
func WithFs(fs afero.Fs) RosterOption {
	return func(r *Roster) { r.fs = fs }
}

// WithIDs replaces the tutor id generator.
func WithIDs(newID func() string) RosterOption {
	return func(r *Roster) { r.newID = newID }
}

// WithSeeds replaces the avatar seed generator.
func WithSeeds(seed func() int) RosterOption {
	return func(r *Roster) { r.seed = seed }
}

// NewRoster starts editing a copy of tutors.
func NewRoster(tutors []simkung.Tutor, opts ...RosterOption) *Roster {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	r := &Roster{
		tutors:   append([]simkung.Tutor(nil), tutors...),
		validate: v,
		fs:       afero.NewOsFs(),
		newID:    uuid.NewString,
		seed:     func() int { return rand.IntN(1000) },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tutors returns a copy of the edited list.
func (r *Roster) Tutors() []simkung.Tutor {
	return append([]simkung.Tutor(nil), r.tutors...)
}

// Len returns the number of tutors.
func (r *Roster) Len() int { return len(r.tutors) }

// Full reports whether no more tutors can be added.
func (r *Roster) Full() bool { return len(r.tutors) >= MaxTutors }

// CanComplete reports whether setup may finish with this roster.
func (r *Roster) CanComplete() bool { return len(r.tutors) > 0 }

// Add validates d and appends a new tutor built from it.
func (r *Roster) Add(d TutorDraft) (simkung.Tutor, error) {
	if r.Full() {
		return simkung.Tutor{}, ErrRosterFull
	}

	d.Name = strings.TrimSpace(d.Name)
	d.Group = strings.TrimSpace(d.Group)
	d.Personality = strings.TrimSpace(d.Personality)
	d.ImagePath = strings.TrimSpace(d.ImagePath)

	if err := r.validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return simkung.Tutor{}, err
		}
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return simkung.Tutor{}, &DraftError{Fields: fields}
	}

	t := simkung.Tutor{
		ID:          r.newID(),
		Name:        d.Name,
		Group:       d.Group,
		Personality: d.Personality,
		AvatarSeed:  r.seed(),
	}

	if d.ImagePath != "" {
		uri, err := ImageDataURI(r.fs, d.ImagePath)
		if err != nil {
			return simkung.Tutor{}, err
		}
		t.ImageURL = uri
	}

	r.tutors = append(r.tutors, t)
	return t, nil
}

// Remove deletes the tutor with id and reports whether one was found.
func (r *Roster) Remove(id string) bool {
	for i, t := range r.tutors {
		if t.ID == id {
			r.tutors = append(r.tutors[:i:i], r.tutors[i+1:]...)
			return true
		}
	}
	return false
}

// ImageDataURI reads an image file and encodes it as a data URI.
func ImageDataURI(fs afero.Fs, path string) (string, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	if info.Size() > MaxImageBytes {
		return "", ErrImageTooLarge
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", ErrNotImage
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// FindTutor resolves the speaker of a dialogue line: by id first, then by
// name, since models sometimes put the name in the id field.
func FindTutor(tutors []simkung.Tutor, idOrName string) (simkung.Tutor, bool) {
	for _, t := range tutors {
		if t.ID == idOrName {
			return t, true
		}
	}
	for _, t := range tutors {
		if t.Name == idOrName {
			return t, true
		}
	}
	return simkung.Tutor{}, false
}

// Encourager returns the tutor named in a quiz encouragement, or the first
// tutor when the name matches nobody.
func Encourager(tutors []simkung.Tutor, name string) (simkung.Tutor, bool) {
	for _, t := range tutors {
		if t.Name == name {
			return t, true
		}
	}
	if len(tutors) > 0 {
		return tutors[0], true
	}
	return simkung.Tutor{}, false
}
