package form

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/datemath"
	"github.com/tartampluch/go-congrats/internal/model"
)

// Field names, shared with the backend's multipart form.
const (
	FieldName      = "fio"
	FieldEmail     = "email"
	FieldBirthDate = "dateOfBirth"
	FieldImage     = "image"
)

const (
	MinNameLength = 4
	MaxImageSize  = 10 * 1024 * 1024
)

// AllowedImageTypes are the raster formats the backend stores.
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError maps field names to message keys or server messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return config.ErrValidation + ": " + strings.Join(parts, "; ")
}

// Add records a message for field, keeping the first one.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// CanonicalField maps a server field name onto one of the Field constants,
// ignoring case. Unknown names are returned unchanged.
func CanonicalField(name string) string {
	for _, f := range []string{FieldName, FieldEmail, FieldBirthDate, FieldImage} {
		if strings.EqualFold(name, f) {
			return f
		}
	}
	return name
}

// Attachment is an image picked for upload.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReadAttachment reads at most one byte past MaxImageSize from r, so an
// oversized file fails validation without being loaded whole.
func ReadAttachment(filename string, r io.Reader) (*Attachment, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrReadImage, err)
	}
	return &Attachment{
		Filename:    filename,
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

// FriendForm is the raw user input of the create and edit dialogs.
type FriendForm struct {
	ID          int64 // zero when creating
	Name        string
	Email       string
	BirthDate   string
	Description string
	Image       *Attachment
}

// FromRecord prefills the edit dialog.
func FromRecord(r model.Record) FriendForm {
	f := FriendForm{
		ID:          r.ID,
		Name:        r.DisplayName,
		Email:       r.Email,
		BirthDate:   r.RawBirthDate,
		Description: r.Description,
	}
	if r.HasBirthDate() {
		f.BirthDate = r.BirthDate.String()
	}
	return f
}

// Submission is a validated form, ready to be sent.
type Submission struct {
	ID          int64
	Name        string
	Email       string
	BirthDate   datemath.Date
	Description string
	Image       *Attachment
}

// IsUpdate reports whether the submission edits an existing record.
func (s Submission) IsUpdate() bool {
	return s.ID != 0
}

// Validate checks every field and reports all failures at once.
// Messages are translation keys.
func (f FriendForm) Validate(today datemath.Date) (Submission, error) {
	verr := &ValidationError{}

	name := strings.TrimSpace(f.Name)
	if utf8.RuneCountInString(name) < MinNameLength {
		verr.Add(FieldName, config.TKeyErrNameShort)
	}

	email := strings.TrimSpace(f.Email)
	if email != "" && !emailPattern.MatchString(email) {
		verr.Add(FieldEmail, config.TKeyErrEmail)
	}

	var birth datemath.Date
	if strings.TrimSpace(f.BirthDate) == "" {
		verr.Add(FieldBirthDate, config.TKeyErrDateRequired)
	} else if d, err := datemath.Parse(f.BirthDate); err != nil {
		verr.Add(FieldBirthDate, config.TKeyErrDateInvalid)
	} else if d.After(today) {
		verr.Add(FieldBirthDate, config.TKeyErrDateFuture)
	} else {
		birth = d
	}

	if f.Image != nil {
		switch {
		case len(f.Image.Data) > MaxImageSize:
			verr.Add(FieldImage, config.TKeyErrImageSize)
		case !slices.Contains(AllowedImageTypes, imageType(f.Image)):
			verr.Add(FieldImage, config.TKeyErrImageType)
		}
	}

	if len(verr.Fields) > 0 {
		return Submission{}, verr
	}
	return Submission{
		ID:          f.ID,
		Name:        name,
		Email:       email,
		BirthDate:   birth,
		Description: strings.TrimSpace(f.Description),
		Image:       f.Image,
	}, nil
}

func imageType(a *Attachment) string {
	ct := a.ContentType
	if ct == "" {
		ct = http.DetectContentType(a.Data)
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
