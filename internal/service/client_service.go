package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/content-calendar-api/internal/ai"
	"github.com/content-calendar-api/internal/calendar"
	"github.com/content-calendar-api/internal/models"
	"github.com/content-calendar-api/internal/repository"
	"github.com/rs/zerolog"
)

// clientService is the concrete implementation of ClientService
type clientService struct {
	repos     *repository.Repositories
	generator *calendar.Generator
	insights  *ai.InsightExtractor
	maxImages int
	log       zerolog.Logger
}

// newClientService creates a new ClientService
func newClientService(repos *repository.Repositories, generator *calendar.Generator,
	insights *ai.InsightExtractor, maxImages int, log zerolog.Logger) *clientService {
	return &clientService{
		repos:     repos,
		generator: generator,
		insights:  insights,
		maxImages: maxImages,
		log:       log.With().Str("service", "client").Logger(),
	}
}

func (s *clientService) CreateClient(ctx context.Context, req *models.CreateClientRequest) (*models.Client, error) {
	name := strings.TrimSpace(req.CompanyName)
	if err := validateCreateRequest(name, req); err != nil {
		return nil, err
	}

	existing, err := s.repos.Client.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("client %q: %w", name, repository.ErrAlreadyExists)
	}

	imageInsights, err := s.extractInsights(ctx, req.Images)
	if err != nil {
		return nil, err
	}

	posts, err := s.generator.Generate(ctx, calendar.Request{
		ClientName:  name,
		TargetMonth: req.TargetMonth,
		Platforms:   req.Platforms,
		NumPosts:    req.NumPosts,
		NumReels:    req.NumReels,
		Industry:    req.Industry,
		Audience:    req.TargetAudience,
		Goals:       req.Goals,
		Context:     generationContext(req.Suggestions, imageInsights),
	})
	if err != nil {
		s.log.Error().Err(err).Str("client", name).Msg("Content calendar generation failed")
		return nil, err
	}

	client := &models.Client{
		CompanyName:     name,
		NumPosts:        req.NumPosts,
		NumReels:        req.NumReels,
		Platforms:       calendar.NormalizePlatforms(req.Platforms),
		TargetMonth:     req.TargetMonth,
		Suggestions:     req.Suggestions,
		ImageInsights:   imageInsights,
		Industry:        req.Industry,
		TargetAudience:  req.TargetAudience,
		Goals:           req.Goals,
		ContentCalendar: posts,
		CreatedAt:       time.Now().UTC(),
	}
	project := &models.Project{Name: name, CalendarEntries: calendar.Materialize(posts)}

	if err := s.repos.Client.Create(ctx, client, project); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("client", name).
		Str("month", client.TargetMonth).
		Int("entries", len(posts)).
		Bool("image_insights", imageInsights != "").
		Msg("Client created")

	return client, nil
}

func (s *clientService) ListClients(ctx context.Context) ([]string, error) {
	return s.repos.Client.ListNames(ctx)
}

func (s *clientService) extractInsights(ctx context.Context, uploads []models.UploadedImage) (string, error) {
	var images []ai.Image
	for _, u := range uploads {
		if len(u.Data) == 0 {
			continue
		}
		if s.maxImages > 0 && len(images) >= s.maxImages {
			s.log.Warn().Int("max", s.maxImages).Int("uploaded", len(uploads)).Msg("Ignoring extra reference images")
			break
		}
		images = append(images, ai.Image{MIMEType: u.MIMEType, Data: u.Data})
	}
	if len(images) == 0 {
		return "", nil
	}
	return s.insights.Analyze(ctx, images)
}

func validateCreateRequest(name string, req *models.CreateClientRequest) error {
	if name == "" {
		return fmt.Errorf("%w: company name is required", ErrInvalidInput)
	}
	if req.NumPosts < 0 || req.NumReels < 0 {
		return fmt.Errorf("%w: post and reel counts must not be negative", ErrInvalidInput)
	}
	if len(req.Platforms) == 0 {
		return fmt.Errorf("%w: at least one platform is required", ErrInvalidInput)
	}
	if _, _, err := calendar.MonthBounds(req.TargetMonth); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func generationContext(suggestions, insights string) string {
	var parts []string
	if s := strings.TrimSpace(suggestions); s != "" {
		parts = append(parts, s)
	}
	if i := strings.TrimSpace(insights); i != "" {
		parts = append(parts, "Image insights:\n"+i)
	}
	return strings.Join(parts, "\n\n")
}
