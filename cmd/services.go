package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dstockto/brewctl/api"
	"github.com/dstockto/brewctl/brewery"
	"github.com/dstockto/brewctl/db"
	"github.com/dstockto/brewctl/notify"
	"github.com/spf13/cobra"
)

// services are the backend client and the brewery services built on top of it for one command.
type services struct {
	client   *api.Client
	ledger   *brewery.StockLedger
	catalog  *brewery.RecipeCatalog
	orch     *brewery.Orchestrator
	editor   *brewery.Editor
	notifier notify.Notifier
	journal  *db.Client
	mqtt     *notify.MQTT
}

// connect builds the services from Cfg. toasts, when non-nil, receives console notifications.
// Optional sinks (journal, MQTT, Telegram) that fail to start are logged and skipped.
func connect(cmd *cobra.Command, confirm brewery.Confirmer, toasts io.Writer) (*services, error) {
	if Cfg == nil || Cfg.ApiBase == "" {
		return nil, errors.New("api endpoint not configured (set api_base or BREW_API_BASE)")
	}
	log := logFor(cmd)

	opts := []api.Option{
		api.WithLogger(log),
		api.WithMetrics(appMetrics),
		api.WithDigestAuth(Cfg.ApiUser, Cfg.ApiPassword),
	}
	if Cfg.TimeoutSeconds > 0 {
		opts = append(opts, api.WithTimeout(time.Duration(Cfg.TimeoutSeconds)*time.Second))
	}
	s := &services{client: api.NewClient(Cfg.ApiBase, opts...)}

	var sinks notify.Multi
	if toasts != nil {
		sinks = append(sinks, notify.Console{Out: toasts})
	}
	if Cfg.MQTT != nil && Cfg.MQTT.Broker != "" {
		m, err := notify.NewMQTT(Cfg.MQTT.Broker, Cfg.MQTT.ClientID, Cfg.MQTT.Topic)
		if err != nil {
			log.Warn("mqtt notifications disabled", "err", err)
		} else {
			s.mqtt = m
			sinks = append(sinks, m)
		}
	}
	if Cfg.Telegram != nil && Cfg.Telegram.Token != "" {
		t, err := notify.NewTelegram(Cfg.Telegram.Token, Cfg.Telegram.ChatID)
		if err != nil {
			log.Warn("telegram notifications disabled", "err", err)
		} else {
			sinks = append(sinks, t)
		}
	}
	s.notifier = sinks

	orchOpts := []brewery.OrchestratorOption{
		brewery.WithNotifier(s.notifier),
		brewery.WithMetrics(appMetrics),
		brewery.WithLogger(log),
	}
	if Cfg.Database != "" {
		j, err := db.NewClient(Cfg.Database)
		if err != nil {
			log.Warn("production journal disabled", "database", Cfg.Database, "err", err)
		} else {
			s.journal = j
			orchOpts = append(orchOpts, brewery.WithJournal(j))
		}
	}

	s.ledger = brewery.NewStockLedger(s.client, confirm)
	s.catalog = brewery.NewRecipeCatalog(s.client)
	s.orch = brewery.NewOrchestrator(s.client, s.ledger, orchOpts...)
	s.editor = brewery.NewEditor(s.client, s.catalog, confirm, s.notifier).SetLogger(log)

	return s, nil
}

func (s *services) Close() {
	if s == nil {
		return
	}
	if s.mqtt != nil {
		s.mqtt.Close()
	}
	_ = s.journal.Close()
}

// openJournal opens the configured journal for commands that only read it.
func openJournal() (*db.Client, error) {
	if Cfg == nil || Cfg.Database == "" {
		return nil, fmt.Errorf("database not configured (set database or BREW_DATABASE)")
	}
	return db.NewClient(Cfg.Database)
}
