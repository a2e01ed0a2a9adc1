package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sirupsen/logrus"

	"portfolio/internal/app"
	"portfolio/internal/config"
	"portfolio/internal/domain/content"
	"portfolio/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	l := logger.New(cfg.LogLevel)

	ctx := context.Background()
	a, err := app.New(ctx, cfg, l)
	if err != nil {
		l.WithError(err).Fatal("startup failed")
	}
	defer a.Close()

	if err := seed(ctx, a.Catalog, l); err != nil {
		l.WithError(err).Fatal("seed failed")
	}
}

func seed(ctx context.Context, c *content.Catalog, l *logrus.Logger) error {
	if _, err := c.Profile.Find(ctx); err == nil {
		l.Info("profile exists, skipping seed")
		return nil
	} else if !errors.Is(err, content.ErrNotFound) {
		return err
	}

	l.Info("seeding demo content...")

	if _, err := c.Profile.Save(ctx, &content.Profile{
		Name:     "Alex Morgan",
		Title:    "Backend Engineer",
		ShortBio: "I build services that stay up.",
	}, nil); err != nil {
		return err
	}
	if _, err := c.About.Save(ctx, &content.About{
		Content: "Ten years of shipping APIs, data pipelines and the tooling around them.",
	}, nil); err != nil {
		return err
	}
	if _, err := c.Contact.Save(ctx, &content.Contact{
		Email:       "alex@example.com",
		Phone:       "+1 555 0100",
		LinkedInURL: "https://www.linkedin.com/in/alex-morgan",
		GitHubURL:   "https://github.com/alex-morgan",
		Address:     "Remote",
	}, nil); err != nil {
		return err
	}

	for _, e := range []content.Experience{
		{JobTitle: "Senior Engineer", Company: "Acme Cloud", StartDate: day("2021-02-01"), Description: "Storage and billing services."},
		{JobTitle: "Software Engineer", Company: "Initech", StartDate: day("2017-06-01"), EndDate: ptr(day("2021-01-31"))},
	} {
		if _, err := c.Experiences.Save(ctx, &e, nil); err != nil {
			return err
		}
	}

	for _, p := range []content.Project{
		{Title: "Portfolio CMS", Description: "This site.", ProjectLink: "https://github.com/alex-morgan/portfolio"},
		{Title: "Log shipper", Description: "Tails files into object storage."},
	} {
		if _, err := c.Projects.Save(ctx, &p, nil); err != nil {
			return err
		}
	}

	for _, s := range []content.Skill{
		{Name: "Go", Category: "Languages"},
		{Name: "PostgreSQL", Category: "Databases", IconClass: "bi-database"},
		{Name: "Kubernetes"},
	} {
		if _, err := c.Skills.Save(ctx, &s, nil); err != nil {
			return err
		}
	}

	for _, s := range []content.SocialLink{
		{Name: "GitHub", URL: "https://github.com/alex-morgan", IconClass: "bi-github"},
		{Name: "LinkedIn", URL: "https://www.linkedin.com/in/alex-morgan", IconClass: "bi-linkedin"},
	} {
		if _, err := c.SocialLinks.Save(ctx, &s, nil); err != nil {
			return err
		}
	}

	if _, err := c.Educations.Save(ctx, &content.Education{
		Institution:  "State University",
		Degree:       "BSc",
		FieldOfStudy: "Computer Science",
		StartDate:    day("2013-09-01"),
		EndDate:      ptr(day("2017-05-31")),
	}, nil); err != nil {
		return err
	}

	if _, err := c.Services.Save(ctx, &content.Service{
		Title:       "API design review",
		Description: "A written review of an HTTP or gRPC API before it ships.",
	}, nil); err != nil {
		return err
	}

	l.Info("seed completed")
	return nil
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }
