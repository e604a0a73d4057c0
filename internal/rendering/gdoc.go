package rendering

import (
	"context"
	"strings"
	"unicode/utf16"

	"go.uber.org/zap"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/option"

	"github.com/jonathan/resume-agent/internal/types"
)

// DocsAPI is the slice of the Google Docs API the renderer uses.
type DocsAPI interface {
	Create(ctx context.Context, title string) (string, error)
	BatchUpdate(ctx context.Context, documentID string, requests []*docs.Request) error
}

type docsService struct {
	svc *docs.Service
}

// NewDocsAPI dials the Google Docs API. Credentials come from opts or,
// when none are given, from application default credentials.
func NewDocsAPI(ctx context.Context, opts ...option.ClientOption) (DocsAPI, error) {
	opts = append([]option.ClientOption{option.WithScopes(docs.DocumentsScope)}, opts...)
	svc, err := docs.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &docsService{svc: svc}, nil
}

func (d *docsService) Create(ctx context.Context, title string) (string, error) {
	doc, err := d.svc.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return doc.DocumentId, nil
}

func (d *docsService) BatchUpdate(ctx context.Context, documentID string, requests []*docs.Request) error {
	_, err := d.svc.Documents.BatchUpdate(documentID, &docs.BatchUpdateDocumentRequest{Requests: requests}).Context(ctx).Do()
	return err
}

// DocURL is the browser link for a Google Doc.
func DocURL(documentID string) string {
	return "https://docs.google.com/document/d/" + documentID + "/edit"
}

// WithDocs enables RenderDoc through api.
func (r *Renderer) WithDocs(api DocsAPI) *Renderer {
	r.docs = api
	return r
}

// RenderDoc creates a Google Doc titled title holding tr and returns its URL.
func (r *Renderer) RenderDoc(ctx context.Context, tr *types.TailoredResume, title string) (string, error) {
	if r.docs == nil {
		return "", &RenderError{Message: "google docs output is not configured"}
	}
	if strings.TrimSpace(title) == "" {
		return "", &RenderError{Message: "google doc title is empty"}
	}

	id, err := r.docs.Create(ctx, title)
	if err != nil {
		return "", &RenderError{Message: "failed to create google doc", Cause: err}
	}
	requests := DocRequests(tr, r.includeNotes)
	if err := r.docs.BatchUpdate(ctx, id, requests); err != nil {
		return "", &RenderError{Message: "failed to fill google doc " + id, Cause: err}
	}

	url := DocURL(id)
	r.log.Info("rendered resume", zap.String("doc", url), zap.Int("requests", len(requests)))
	return url, nil
}

// docBuilder lays out plain text and records style ranges. Offsets are
// UTF-16 code units from the start of the document body, which is index 1.
type docBuilder struct {
	sb       strings.Builder
	pos      int64
	headings []docRange
	bullets  []docRange
	bold     []docRange
}

type docRange struct {
	start, end int64
	style      string
}

func (b *docBuilder) write(s string) {
	b.sb.WriteString(s)
	b.pos += int64(len(utf16.Encode([]rune(s))))
}

func (b *docBuilder) paragraph(s string) (start, end int64) {
	start = b.pos
	b.write(s)
	end = b.pos
	b.write("\n")
	return start, end
}

func (b *docBuilder) heading(s, style string) {
	start, end := b.paragraph(s)
	b.headings = append(b.headings, docRange{start: start, end: end, style: style})
}

func (b *docBuilder) bullet(s string) {
	s = strings.Join(strings.Fields(strings.ReplaceAll(s, "**", "")), " ")
	start, end := b.paragraph(s)
	b.bullets = append(b.bullets, docRange{start: start, end: end})

	if i := strings.Index(s, types.GapMarker); i >= 0 {
		from := start + int64(len(utf16.Encode([]rune(s[:i]))))
		b.bold = append(b.bold, docRange{start: from, end: from + int64(len(utf16.Encode([]rune(types.GapMarker))))})
	}
}

func (b *docBuilder) bulletList(title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	b.heading(title, "HEADING_2")
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			b.bullet(l)
		}
	}
}

// DocRequests lays out tr as one text insertion followed by paragraph,
// bullet and bold styling over the inserted ranges.
func DocRequests(tr *types.TailoredResume, includeNotes bool) []*docs.Request {
	b := &docBuilder{pos: 1}

	b.heading(tr.Name, "TITLE")
	if contact := joinPlain(tr.Email, tr.Location); contact != "" {
		b.paragraph(contact)
	}
	if tr.Headline != "" {
		b.heading(tr.Headline, "SUBTITLE")
	}
	for _, s := range tr.Summary {
		b.paragraph(s)
	}

	if len(tr.Skills) > 0 {
		b.heading("Skills", "HEADING_1")
		for _, cat := range tr.Skills {
			if strings.TrimSpace(cat.Category) == "" || len(cat.Skills) == 0 {
				continue
			}
			b.paragraph(cat.Category + ": " + strings.Join(cat.Skills, ", "))
		}
	}

	revisions := 0
	if len(tr.Roles) > 0 {
		b.heading("Experience", "HEADING_1")
		for _, r := range tr.Roles {
			line := r.Title + ", " + r.Company
			if r.Dates != "" {
				line += " (" + r.Dates + ")"
			}
			b.heading(line, "HEADING_3")
			for _, bl := range r.Bullets {
				text := bl.Text
				if bl.NeedsRevision {
					revisions++
					if includeNotes {
						note := bl.RevisionNote
						if strings.TrimSpace(note) == "" {
							note = defaultRevisionNote
						}
						text += " [" + note + "]"
					}
				}
				b.bullet(text)
			}
		}
	}

	b.bulletList("Education", tr.Education)
	b.bulletList("Certifications", tr.Certifications)
	b.bulletList("Awards", tr.Awards)

	if includeNotes && (len(tr.ChangeLog)+len(tr.QuestionsForUser)+len(tr.GapsToConfirm) > 0 || revisions > 0) {
		b.heading("Notes", "HEADING_1")
		b.bulletList("Changes", tr.ChangeLog)
		b.bulletList("Questions", tr.QuestionsForUser)
		b.bulletList("Gaps to confirm", tr.GapsToConfirm)
	}

	requests := []*docs.Request{{
		InsertText: &docs.InsertTextRequest{
			Location: &docs.Location{Index: 1},
			Text:     b.sb.String(),
		},
	}}
	for _, h := range b.headings {
		requests = append(requests, &docs.Request{
			UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
				Range:          &docs.Range{StartIndex: h.start, EndIndex: h.end},
				ParagraphStyle: &docs.ParagraphStyle{NamedStyleType: h.style},
				Fields:         "namedStyleType",
			},
		})
	}
	for _, bl := range b.bullets {
		requests = append(requests, &docs.Request{
			CreateParagraphBullets: &docs.CreateParagraphBulletsRequest{
				Range:        &docs.Range{StartIndex: bl.start, EndIndex: bl.end},
				BulletPreset: "BULLET_DISC_CIRCLE_SQUARE",
			},
		})
	}
	for _, bd := range b.bold {
		requests = append(requests, &docs.Request{
			UpdateTextStyle: &docs.UpdateTextStyleRequest{
				Range:     &docs.Range{StartIndex: bd.start, EndIndex: bd.end},
				TextStyle: &docs.TextStyle{Bold: true},
				Fields:    "bold",
			},
		})
	}
	return requests
}

func joinPlain(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " | ")
}
