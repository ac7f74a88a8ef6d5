package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sw33tLie/geoshare/internal/utils"
	"github.com/sw33tLie/geoshare/pkg/batch"
	"github.com/sw33tLie/geoshare/pkg/conversion"
	"github.com/sw33tLie/geoshare/pkg/permissions"
	"github.com/sw33tLie/geoshare/pkg/registry"
	"github.com/sw33tLie/geoshare/pkg/storage"
	"github.com/sw33tLie/geoshare/pkg/whttp"
)

// session holds what the conversion commands share: the conversion
// environment and, unless --no-history is set, the database.
type session struct {
	env  conversion.Env
	db   *storage.DB
	lock *utils.DBLock
}

func openSession(cmd *cobra.Command) (*session, error) {
	client, err := whttp.NewClient(whttp.Config{
		Timeout:   viper.GetDuration("network.timeout"),
		RetryMax:  viper.GetInt("network.retries"),
		UserAgent: viper.GetString("network.user_agent"),
		Proxy:     viper.GetString("network.proxy"),
	})
	if err != nil {
		return nil, err
	}

	defaults, err := configuredPermissions()
	if err != nil {
		return nil, err
	}

	s := &session{}
	var store permissions.Store = permissions.NewMemoryStore(nil)
	noHistory, _ := cmd.Flags().GetBool("no-history")
	if !noHistory {
		if s.db, s.lock, err = openDB(); err != nil {
			return nil, err
		}
		store = permissions.Locked(s.db, s.lock.WithLock)
	}

	s.env = conversion.Env{
		Registry:    registry.Default(),
		Network:     client,
		Permissions: permissions.WithDefaults(store, defaults),
		Log:         utils.Log,
	}
	return s, nil
}

func (s *session) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// record adds a finished conversion to the history.
func (s *session) record(ctx context.Context, text string, state conversion.State) {
	if s.db == nil {
		return
	}
	err := s.lock.WithLock(func() error {
		_, err := s.db.RecordConversion(ctx, batch.Record(text, state))
		return err
	})
	if err != nil {
		utils.Log.Warnf("Could not record conversion: %v", err)
	}
}

// openDB opens the database named by db.path, creating its directory.
func openDB() (*storage.DB, *utils.DBLock, error) {
	dbPath, err := utils.EnsureDBDir(viper.GetString("db.path"))
	if err != nil {
		return nil, nil, err
	}
	lock, err := utils.NewDBLock(dbPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open database %s: %w", dbPath, err)
	}
	utils.Log.Debugf("Using database %s", dbPath)
	return db, lock, nil
}

// configuredPermissions reads permissions.<category> from the config. They
// apply while the database still says ask.
func configuredPermissions() (map[permissions.Category]permissions.Permission, error) {
	out := make(map[permissions.Category]permissions.Permission, len(permissions.Categories))
	for _, c := range permissions.Categories {
		p, err := permissions.ParsePermission(viper.GetString("permissions." + string(c)))
		if err != nil {
			return nil, fmt.Errorf("permissions.%s: %w", c, err)
		}
		out[c] = p
	}
	return out, nil
}
