package httpx

import (
	"net/http"

	"github.com/abctechblog/blogfront/internal/domain/contact"
	"github.com/abctechblog/blogfront/internal/service"
)

// Contact relays the contact form.
// POST /ui/contact.
func Contact(w http.ResponseWriter, r *http.Request, ws *service.Workspace) {
	var msg contact.Message
	if !DecodeJSON(w, r, &msg) {
		return
	}
	ws.Contact.Edit(msg)
	err := ws.Contact.Submit(detached(r))
	respond(w, ws, ws.Contact.View(), err)
}
