package sbhttpserver

import (
	"net/http"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Serve starts the HTTP server in the background and hooks shutdown
// into the application lifecycle.
func (b *Instance) Serve() error {
	var wg sync.WaitGroup
	wg.Add(1)
	b.app.AddCloseFunc(func() error {
		b.server.Shutdown(b.app.Context())
		wg.Wait()
		return nil
	})

	log.Printf("serving at port %d", b.config.Port)
	go func() {
		defer wg.Done()
		err := b.server.ListenAndServe()

		if err != http.ErrServerClosed {
			log.Printf("failed to run server: %s", err)
			b.app.Stop(true)
		}
	}()

	return nil
}
