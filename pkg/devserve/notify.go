// Copyright (c) 2012-2024 Eli Janssen
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package devserve

import (
	"github.com/cactus/mlog"
	"github.com/coreos/go-systemd/v22/daemon"
)

// sdNotify tells a supervising systemd about state changes. Outside of
// systemd this does nothing.
func (s *Server) sdNotify(state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		s.log.Debugm("sd_notify failed", mlog.Map{"state": state, "err": err})
		return
	}
	if sent {
		s.log.Debugm("sd_notify sent", mlog.Map{"state": state})
	}
}
