package app

import (
	"github.com/quin-vannatter/vpn-smb-manager/internal/auth"
	"github.com/quin-vannatter/vpn-smb-manager/internal/config"
	"github.com/quin-vannatter/vpn-smb-manager/internal/invite"
	"github.com/quin-vannatter/vpn-smb-manager/internal/rate"
	"github.com/quin-vannatter/vpn-smb-manager/internal/smb"
	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
	"github.com/quin-vannatter/vpn-smb-manager/internal/vpn"
)

type Container struct {
	Cfg          *config.Config
	Store        core.Repository
	Auth         *auth.Authority
	Invites      *invite.Registry
	Ledger       *vpn.Ledger
	Reconciler   *vpn.Reconciler
	Shares       *smb.Service
	LoginLimiter rate.Limiter
}
