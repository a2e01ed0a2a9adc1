package portfolio

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"portfolio/internal/domain/asset"
	"portfolio/internal/domain/content"
	"portfolio/internal/pkg/cache"
)

// CacheKey holds the JSON encoded View. Bump the suffix when View changes
// shape so stale entries are ignored after a deploy.
const CacheKey = "portfolio:view:v1"

// View is everything the public site renders on its home page.
type View struct {
	Profile     *ProfileView         `json:"profile"`
	About       *content.About       `json:"about"`
	Contact     *content.Contact     `json:"contact"`
	Experiences []content.Experience `json:"experiences"`
	Projects    []ProjectView        `json:"projects"`
	Skills      []content.Skill      `json:"skills"`
	SocialLinks []content.SocialLink `json:"social_links"`
	Educations  []content.Education  `json:"educations"`
	Services    []ServiceView        `json:"services"`
}

type ProfileView struct {
	content.Profile
	PictureLink string `json:"picture_link,omitempty"`
	CVLink      string `json:"cv_link,omitempty"`
}

type ProjectView struct {
	content.Project
	ImageLink string `json:"image_link,omitempty"`
}

type ServiceView struct {
	content.Service
	ImageLink string `json:"image_link,omitempty"`
}

type Service struct {
	catalog *content.Catalog
	assets  *asset.Manager
	cache   cache.Cache
	ttl     time.Duration
	log     *logrus.Logger
}

func NewService(catalog *content.Catalog, assets *asset.Manager, c cache.Cache, ttl time.Duration, log *logrus.Logger) *Service {
	return &Service{catalog: catalog, assets: assets, cache: c, ttl: ttl, log: log}
}

// Get returns the cached view, building and caching it on a miss. Cache
// failures are logged and fall through to the database.
func (s *Service) Get(ctx context.Context) (*View, error) {
	var cached View
	hit, err := s.cache.GetJSON(ctx, CacheKey, &cached)
	if err != nil {
		s.log.WithError(err).Warn("portfolio cache read failed")
	} else if hit {
		return &cached, nil
	}

	v, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, CacheKey, v, s.ttl); err != nil {
		s.log.WithError(err).Warn("portfolio cache write failed")
	}
	return v, nil
}

// Invalidator returns a content.Deps.OnChange hook that drops the cached view.
func Invalidator(c cache.Cache, log *logrus.Logger) func(ctx context.Context) {
	return func(ctx context.Context) {
		if err := c.Del(ctx, CacheKey); err != nil {
			log.WithError(err).Warn("portfolio cache invalidation failed")
		}
	}
}

func (s *Service) build(ctx context.Context) (*View, error) {
	v := &View{}

	profile, err := optional(s.catalog.Profile.Find(ctx))
	if err != nil {
		return nil, err
	}
	if profile != nil {
		v.Profile = &ProfileView{
			Profile:     *profile,
			PictureLink: s.assets.URL(asset.SubfolderProfile, profile.ProfilePictureURL),
			CVLink:      s.assets.URL(asset.SubfolderCV, profile.CVURL),
		}
	}

	if v.About, err = optional(s.catalog.About.Find(ctx)); err != nil {
		return nil, err
	}
	if v.Contact, err = optional(s.catalog.Contact.Find(ctx)); err != nil {
		return nil, err
	}

	if v.Experiences, err = s.catalog.Experiences.List(ctx); err != nil {
		return nil, err
	}
	if v.Skills, err = s.catalog.Skills.List(ctx); err != nil {
		return nil, err
	}
	if v.SocialLinks, err = s.catalog.SocialLinks.List(ctx); err != nil {
		return nil, err
	}
	if v.Educations, err = s.catalog.Educations.List(ctx); err != nil {
		return nil, err
	}

	projects, err := s.catalog.Projects.List(ctx)
	if err != nil {
		return nil, err
	}
	v.Projects = make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		v.Projects = append(v.Projects, ProjectView{Project: p, ImageLink: s.assets.URL(asset.SubfolderProjects, p.ImageURL)})
	}

	services, err := s.catalog.Services.List(ctx)
	if err != nil {
		return nil, err
	}
	v.Services = make([]ServiceView, 0, len(services))
	for _, sv := range services {
		v.Services = append(v.Services, ServiceView{Service: sv, ImageLink: s.assets.URL(asset.SubfolderServices, sv.ImageURL)})
	}

	return v, nil
}

// optional turns a missing singleton into nil.
func optional[T any](rec *T, err error) (*T, error) {
	if errors.Is(err, content.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}
