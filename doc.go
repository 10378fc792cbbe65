/*
Package ooor resolves how a process connects to a remote OpenERP/Odoo server
and reuses authenticated sessions across many requests.

# Concept

A connection is described loosely: a descriptor string such as
"admin:secret@erp.example.com:8069/production", a mapping of options, a YAML
file, or OOOR_* environment variables. The config package turns any of these
into one canonical domain.Config. The session package then keys live
sessions either by an external web-session id or, for headless callers, by
the connection identity itself, and mirrors web-session metadata into a
pluggable cache (memory, file, Redis) so it survives restarts.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/ooor"
		"github.com/aretw0/ooor/pkg/config"
		"github.com/aretw0/ooor/pkg/domain"
	)

	func main() {
		m := ooor.New()

		s, reused, err := m.Session(context.Background(),
			config.FromString("admin:secret@localhost:8069/demo"), domain.NoWeb, nil)
		if err != nil {
			log.Fatal(err)
		}
		log.Println(s.Config.URL, reused)
	}

# Environment

OOOR_URL is used as descriptor when no other is given. OOOR_USERNAME,
OOOR_PASSWORD and OOOR_DATABASE override the resolved fields.
*/
package ooor
