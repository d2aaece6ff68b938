package movies

import (
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/indiereel/backend/internal/catalog"
	"github.com/indiereel/backend/internal/users"
	"github.com/indiereel/backend/pkg/db/models"
	"github.com/indiereel/backend/pkg/enums"
	"github.com/indiereel/backend/pkg/types"
)

// Actor is the authenticated caller driving a workflow.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// DirectorPayload names the director when the creator is not directing.
type DirectorPayload struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email" validate:"required,email"`
	Contact   *string `json:"contact,omitempty" validate:"omitempty,min=10"`
}

func (d DirectorPayload) toContact() users.Contact {
	return users.Contact{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Mobile:    d.Contact,
	}
}

// CreateMovieRequest is the JSON body (or multipart "data" field) of a submission.
type CreateMovieRequest struct {
	Title    string           `json:"title" validate:"required"`
	Link     string           `json:"link" validate:"required,url"`
	Runtime  int              `json:"runtime" validate:"gte=0"`
	Language string           `json:"language" validate:"required"`
	Genres   []string         `json:"genres"`
	Roles    []string         `json:"roles"`
	Director *DirectorPayload `json:"director,omitempty"`
}

// UpdateMovieRequest carries a partial update; omitted fields stay untouched.
type UpdateMovieRequest struct {
	Title    types.Optional[string]          `json:"title" validate:"-"`
	Link     types.Optional[string]          `json:"link" validate:"-"`
	Runtime  types.Optional[int]             `json:"runtime" validate:"-"`
	Language types.Optional[string]          `json:"language" validate:"-"`
	Genres   types.Optional[[]string]        `json:"genres" validate:"-"`
	Roles    types.Optional[[]string]        `json:"roles" validate:"-"`
	Director types.Optional[DirectorPayload] `json:"director" validate:"-"`
	Package  types.Optional[string]          `json:"package" validate:"-"`
}

// ConfirmPaymentRequest is the checkout callback payload relayed by the client.
type ConfirmPaymentRequest struct {
	GatewayOrderID string `json:"razorpay_order_id" validate:"required"`
	PaymentID      string `json:"razorpay_payment_id" validate:"required"`
	Signature      string `json:"razorpay_signature" validate:"required"`
}

// ChangeStateRequest is the staff moderation payload.
type ChangeStateRequest struct {
	State      string     `json:"state" validate:"required"`
	JuryRating *float64   `json:"jury_rating,omitempty" validate:"omitempty,gte=0,lte=10"`
	PublishOn  *time.Time `json:"publish_on,omitempty"`
}

// PosterUpload is an optional poster image streamed from a multipart request.
type PosterUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// CreateInput is the service-level submission.
type CreateInput struct {
	Actor   Actor
	Request CreateMovieRequest
	Poster  *PosterUpload
}

// UpdateInput is the service-level partial update.
type UpdateInput struct {
	Actor   Actor
	MovieID uuid.UUID
	Request UpdateMovieRequest
	Poster  *PosterUpload
}

// ConfirmPaymentInput ties a gateway callback to a movie.
type ConfirmPaymentInput struct {
	Actor   Actor
	MovieID uuid.UUID
	Request ConfirmPaymentRequest
}

// ChangeStateInput is a staff moderation step.
type ChangeStateInput struct {
	Actor   Actor
	MovieID uuid.UUID
	Request ChangeStateRequest
}

// OrderDTO is the client view of a movie's payment record.
type OrderDTO struct {
	ID             uuid.UUID  `json:"id"`
	GatewayOrderID *string    `json:"gateway_order_id,omitempty"`
	Amount         int64      `json:"amount"`
	Currency       string     `json:"currency"`
	Receipt        *string    `json:"receipt,omitempty"`
	Paid           bool       `json:"paid"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
}

// ContestSummary is the contest a movie is entered into.
type ContestSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

// CrewEntry groups every role a profile holds on a movie.
type CrewEntry struct {
	Profile users.ProfileSummary `json:"profile"`
	Roles   []string             `json:"roles"`
}

// ReviewSummary is the viewer's own review on the detail page.
type ReviewSummary struct {
	ID      uuid.UUID  `json:"id"`
	Content *string    `json:"content,omitempty"`
	Rating  *int       `json:"rating,omitempty"`
	RatedAt *time.Time `json:"rated_at,omitempty"`
}

// MovieSummary is the card shape used by every list endpoint.
type MovieSummary struct {
	ID             uuid.UUID         `json:"id"`
	Title          string            `json:"title"`
	Poster         *string           `json:"poster,omitempty"`
	Runtime        int               `json:"runtime"`
	State          enums.MovieState  `json:"state"`
	AudienceRating *types.OneDecimal `json:"audience_rating"`
	JuryRating     *types.OneDecimal `json:"jury_rating"`
	RecommendCount int               `json:"recommend_count"`
	Language       *string           `json:"language,omitempty"`
	Genres         []string          `json:"genres"`
	PublishOn      *time.Time        `json:"publish_on,omitempty"`
}

// MovieDetail is the full movie view.
type MovieDetail struct {
	MovieSummary
	Link          string          `json:"link"`
	Approved      bool            `json:"approved"`
	Package       *string         `json:"package,omitempty"`
	Order         OrderDTO        `json:"order"`
	Contest       *ContestSummary `json:"contest,omitempty"`
	Crew          []CrewEntry     `json:"crew"`
	MyReview      *ReviewSummary  `json:"my_review,omitempty"`
	IsWatchlisted bool            `json:"is_watchlisted"`
	IsRecommended bool            `json:"is_recommended"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Submission is one row of the caller's submissions list.
type Submission struct {
	ID        uuid.UUID        `json:"id"`
	Title     string           `json:"title"`
	Poster    *string          `json:"poster,omitempty"`
	State     enums.MovieState `json:"state"`
	Order     OrderDTO         `json:"order"`
	Package   *string          `json:"package,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// URLFunc turns a stored poster object name into a client URL.
type URLFunc func(objectName string) string

// Mapper renders movie models into client DTOs.
type Mapper struct {
	PosterURL URLFunc
}

func (m Mapper) poster(movie models.Movie) *string {
	if movie.Poster == nil || *movie.Poster == "" {
		return nil
	}
	if m.PosterURL == nil {
		return movie.Poster
	}
	url := m.PosterURL(*movie.Poster)
	return &url
}

// Summary maps a movie onto its card shape.
func (m Mapper) Summary(movie models.Movie) MovieSummary {
	genres := make([]string, 0, len(movie.Genres))
	for _, g := range movie.Genres {
		genres = append(genres, catalog.DisplayName(g.Name))
	}
	var lang *string
	if movie.Language != nil {
		name := catalog.DisplayName(movie.Language.Name)
		lang = &name
	}
	return MovieSummary{
		ID:             movie.ID,
		Title:          movie.Title,
		Poster:         m.poster(movie),
		Runtime:        movie.Runtime,
		State:          movie.State,
		AudienceRating: types.RatingPtr(movie.AudienceRating),
		JuryRating:     types.RatingPtr(movie.JuryRating),
		RecommendCount: movie.RecommendCount,
		Language:       lang,
		Genres:         genres,
		PublishOn:      movie.PublishOn,
	}
}

// Summaries maps a slice of movies.
func (m Mapper) Summaries(movies []models.Movie) []MovieSummary {
	out := make([]MovieSummary, 0, len(movies))
	for _, movie := range movies {
		out = append(out, m.Summary(movie))
	}
	return out
}

// Detail maps a fully loaded movie; viewer-specific fields are filled by the caller.
func (m Mapper) Detail(movie models.Movie) MovieDetail {
	detail := MovieDetail{
		MovieSummary: m.Summary(movie),
		Link:         movie.Link,
		Approved:     movie.Approved,
		Package:      packageName(movie.Package),
		Order:        mapOrder(movie.Order),
		Crew:         groupCrew(movie.CrewMembers),
		CreatedAt:    movie.CreatedAt,
		UpdatedAt:    movie.UpdatedAt,
	}
	if movie.Contest != nil {
		detail.Contest = &ContestSummary{
			ID:       movie.Contest.ID,
			Name:     movie.Contest.Name,
			StartsAt: movie.Contest.StartsAt,
			EndsAt:   movie.Contest.EndsAt,
		}
	}
	return detail
}

// Submission maps a movie onto the submissions list shape.
func (m Mapper) Submission(movie models.Movie) Submission {
	return Submission{
		ID:        movie.ID,
		Title:     movie.Title,
		Poster:    m.poster(movie),
		State:     movie.State,
		Order:     mapOrder(movie.Order),
		Package:   packageName(movie.Package),
		CreatedAt: movie.CreatedAt,
	}
}

func packageName(pkg *models.Package) *string {
	if pkg == nil {
		return nil
	}
	name := catalog.DisplayName(pkg.Name)
	return &name
}

func mapOrder(o models.Order) OrderDTO {
	return OrderDTO{
		ID:             o.ID,
		GatewayOrderID: o.GatewayOrderID,
		Amount:         o.Amount,
		Currency:       o.Currency,
		Receipt:        o.Receipt,
		Paid:           o.IsPaid(),
		PaidAt:         o.PaidAt,
	}
}

// groupCrew folds one row per (profile, role) into one entry per profile,
// keeping first-seen order.
func groupCrew(members []models.CrewMember) []CrewEntry {
	out := make([]CrewEntry, 0, len(members))
	index := make(map[uuid.UUID]int, len(members))
	for _, member := range members {
		i, ok := index[member.ProfileID]
		if !ok {
			i = len(out)
			index[member.ProfileID] = i
			out = append(out, CrewEntry{Profile: users.SummarizeProfile(member.Profile), Roles: []string{}})
		}
		out[i].Roles = append(out[i].Roles, member.Role.Name)
	}
	return out
}

func mapReview(r *models.MovieRateReview) *ReviewSummary {
	if r == nil {
		return nil
	}
	return &ReviewSummary{ID: r.ID, Content: r.Content, Rating: r.Rating, RatedAt: r.RatedAt}
}

func posterObjectName(prefix string, movieID uuid.UUID, upload PosterUpload) string {
	ext := strings.ToLower(extension(upload.Filename))
	if ext == "" {
		ext = extensionForContentType(upload.ContentType)
	}
	name := movieID.String() + ext
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

func extension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 || strings.ContainsAny(filename[i:], `/\`) {
		return ""
	}
	return filename[i:]
}

func extensionForContentType(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	return ".jpg"
}
