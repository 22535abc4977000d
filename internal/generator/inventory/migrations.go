package inventory

import (
	"database/sql"

	"github.com/HerbHall/netconfig/internal/store"
)

func migrations() []store.Migration {
	return []store.Migration{
		{
			Version:     1,
			Description: "create runs, networks and hosts tables",
			Up: func(tx *sql.Tx) error {
				stmts := []string{
					`CREATE TABLE runs (
						id           TEXT PRIMARY KEY,
						generated_at DATETIME NOT NULL,
						version      TEXT NOT NULL
					)`,
					`CREATE TABLE networks (
						name           TEXT PRIMARY KEY,
						run_id         TEXT NOT NULL REFERENCES runs(id),
						prefix         TEXT NOT NULL,
						netmask        TEXT NOT NULL,
						broadcast      TEXT NOT NULL,
						host_count     INTEGER NOT NULL,
						next_available TEXT,
						reverse_zone   TEXT,
						dhcp           INTEGER NOT NULL DEFAULT 0,
						dns_authority  TEXT
					)`,
					`CREATE TABLE hosts (
						network TEXT NOT NULL REFERENCES networks(name),
						name    TEXT NOT NULL,
						run_id  TEXT NOT NULL REFERENCES runs(id),
						ip      TEXT NOT NULL UNIQUE,
						ip_int  INTEGER NOT NULL,
						mac     TEXT NOT NULL UNIQUE,
						PRIMARY KEY (network, name)
					)`,
					`CREATE INDEX idx_hosts_ip_int ON hosts(ip_int)`,
				}
				for _, s := range stmts {
					if _, err := tx.Exec(s); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Version:     2,
			Description: "create host aliases table",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`CREATE TABLE host_aliases (
					network TEXT NOT NULL,
					alias   TEXT NOT NULL,
					host    TEXT NOT NULL,
					PRIMARY KEY (network, alias),
					FOREIGN KEY (network, host) REFERENCES hosts(network, name)
				)`)
				return err
			},
		},
	}
}
