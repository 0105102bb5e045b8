/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/longkey1/sitechat/internal/backend"
	"github.com/longkey1/sitechat/internal/sitechat/config"
	"github.com/longkey1/sitechat/internal/sitechat/session"
	"github.com/rs/zerolog/log"
)

// newSession creates a session bound to the configured backend
func newSession(cfg *config.Config) *session.Session {
	client := backend.NewClient(cfg)
	log.Debug().
		Str("base_url", cfg.GetBaseURL()).
		Str("profile", cfg.Profile).
		Dur("timeout", cfg.GetTimeout()).
		Bool("scrape", client.Contract().ScrapeEnabled()).
		Msg("backend configured")
	return session.New(client, client.Contract())
}

// archiveSession saves the transcript when saving is requested
func archiveSession(cfg *config.Config, sess *session.Session, name string) (*session.Archive, error) {
	archive := session.NewArchive(sess, cfg.Profile, cfg.GetBaseURL())
	archive.Name = name
	store := session.NewStore(cfg.SessionDir)
	if err := store.Save(archive); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	log.Debug().Str("id", archive.ID).Str("path", store.Path(archive.ID)).Msg("session saved")
	return archive, nil
}
