// Package main — WebSocket Hub callback wire-up.
//
// Hub ws paketinde yaşıyor, oturum state'i ise services katmanında.
// Hub'ın service'lere bağımlı olmaması için bağlantı burada, main package'da kurulur.
package main

import (
	"context"

	"github.com/akinalp/folio/services"
	"github.com/akinalp/folio/ws"
	"go.uber.org/zap"
)

// registerHubCallbacks, bağlantı ve lightbox_close callback'lerini ayarlar.
func registerHubCallbacks(hub *ws.Hub, svcs *Services, logger *zap.Logger) {
	hub.OnSessionConnect(func(sessionID string) any {
		return ws.ReadyData{
			SessionID: sessionID,
			Revision:  svcs.Projects.Snapshot().Revision,
		}
	})

	hub.OnLightboxClose(func(sessionID string) {
		closeLightbox(svcs.Sessions, sessionID)
		logger.Debug("lightbox closed over ws", zap.String("session", sessionID))
	})
}

// closeLightbox, Escape tuşunun sunucu tarafı. İstek context'i yoktur.
func closeLightbox(sessions services.SessionService, sessionID string) {
	sessions.CloseLightbox(context.Background(), sessionID)
}
