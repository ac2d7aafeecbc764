// Package smb provisiona usuarios y shares SMB a través de los scripts
// externos. Todas las operaciones son best-effort: un fallo se loguea y no
// interrumpe el flujo que lo disparó.
package smb

import (
	"context"

	"go.uber.org/zap"

	"github.com/quin-vannatter/vpn-smb-manager/internal/command"
	"github.com/quin-vannatter/vpn-smb-manager/internal/observability/logger"
)

type Service struct {
	runner command.Runner
	log    *zap.Logger
}

func NewService(runner command.Runner) *Service {
	return &Service{runner: runner, log: logger.Named("smb")}
}

// Provision crea el usuario SMB al enrolar.
func (s *Service) Provision(ctx context.Context, username, smbPassword string) {
	if _, err := s.runner.Run(ctx, command.ScriptCreateSMBUser, username, smbPassword); err != nil {
		s.log.Error("smb user provisioning failed", logger.Username(username), logger.Err(err))
	}
}

// Remove borra el usuario SMB al eliminar la cuenta.
func (s *Service) Remove(ctx context.Context, username string) {
	if _, err := s.runner.Run(ctx, command.ScriptRemoveSMBUser, username); err != nil {
		s.log.Error("smb user removal failed", logger.Username(username), logger.Err(err))
	}
}

// SyncDirectories re-sincroniza los directorios compartidos del usuario.
// Se dispara después de cada login exitoso.
func (s *Service) SyncDirectories(ctx context.Context, username string) {
	if _, err := s.runner.Run(ctx, command.ScriptUpdateShares, username); err != nil {
		s.log.Error("share sync failed", logger.Username(username), logger.Err(err))
	}
}

// MountScript devuelve el .bat de montaje del share del usuario.
func (s *Service) MountScript(ctx context.Context, username, smbPassword string) (string, error) {
	out, err := s.runner.Run(ctx, command.ScriptGetSMBShare, username, smbPassword)
	if err != nil {
		s.log.Error("mount script generation failed", logger.Username(username), logger.Err(err))
		return "", err
	}
	return out, nil
}
