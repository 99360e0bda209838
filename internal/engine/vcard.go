package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/emersion/go-vcard"

	"github.com/tartampluch/go-congrats/internal/config"
	"github.com/tartampluch/go-congrats/internal/datemath"
	"github.com/tartampluch/go-congrats/internal/form"
)

// ImportSource says where a vCard stream comes from.
type ImportSource struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string
	URL       string
	User      string
	Pass      string
}

// ImportResult is the outcome of decoding a vCard stream.
type ImportResult struct {
	// Forms are prefilled create forms, one per usable card.
	Forms []form.FriendForm

	Cards   int
	Skipped int
}

// Importer turns address books into friend forms.
type Importer struct {
	Fetcher VCardFetcher
}

// Import opens src and decodes every card in it.
func (im *Importer) Import(ctx context.Context, src ImportSource) (ImportResult, error) {
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMode, src.Mode)
	log.InfoContext(ctx, config.MsgImportStarted)

	reader, err := im.open(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return ImportResult{}, ctx.Err()
		}
		return ImportResult{}, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = reader.Close() }()

	return DecodeVCards(ctx, reader)
}

// open returns the stream of the configured source.
func (im *Importer) open(ctx context.Context, src ImportSource) (io.ReadCloser, error) {
	switch src.Mode {
	case config.SourceModeLocal:
		if src.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(src.LocalPath)
	case config.SourceModeWeb:
		if src.URL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if im.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return im.Fetcher.Fetch(ctx, src.URL, src.User, src.Pass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, src.Mode)
	}
}

// DecodeVCards reads cards until EOF. Malformed cards and cards without a
// full birth date are skipped and counted; the backend requires a year.
func DecodeVCards(ctx context.Context, r io.Reader) (ImportResult, error) {
	var res ImportResult
	dec := vcard.NewDecoder(r)

	for {
		if err := ctx.Err(); err != nil {
			return ImportResult{}, err
		}

		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			res.Skipped++
			// The decoder cannot resynchronise after a syntax error.
			break
		}
		res.Cards++

		f, ok := cardForm(card)
		if !ok {
			res.Skipped++
			continue
		}
		res.Forms = append(res.Forms, f)
	}

	slog.Info(config.MsgImportDone,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyCount, len(res.Forms),
		config.LogKeySkipped, res.Skipped)
	return res, nil
}

// cardForm maps a card onto a create form. Name strategy: FN, then N.
func cardForm(card vcard.Card) (form.FriendForm, bool) {
	bday := card.Get(config.VCardBDAY)
	if bday == nil || bday.Value == "" {
		return form.FriendForm{}, false
	}
	birth, err := datemath.Parse(bday.Value)
	if err != nil {
		slog.Debug(config.MsgSkippedDate,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyValue, bday.Value)
		return form.FriendForm{}, false
	}

	name := ""
	if fn := card.Get(config.VCardFN); fn != nil {
		name = strings.TrimSpace(fn.Value)
	}
	if name == "" {
		if n := card.Name(); n != nil {
			name = strings.TrimSpace(strings.Join(
				nonEmpty(n.GivenName, n.AdditionalName, n.FamilyName), " "))
		}
	}
	if name == "" {
		name = config.FallbackName
	}

	return form.FriendForm{
		Name:        name,
		Email:       strings.TrimSpace(card.PreferredValue(vcard.FieldEmail)),
		BirthDate:   birth.String(),
		Description: strings.TrimSpace(card.PreferredValue(vcard.FieldNote)),
	}, true
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
