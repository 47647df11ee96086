package events

import (
	"github.com/sirupsen/logrus"
	"github.com/zishang520/engine.io/v2/types"
	socketio "github.com/zishang520/socket.io/v2/socket"
)

// Hub pushes store-change notifications to connected clients. Clients join
// the shared "studio" room after connecting and receive project-change,
// library-sync and listing-change events as stores mutate.
type Hub struct {
	io *socketio.Server
}

const studioRoom = socketio.Room("studio")

func NewHub() *Hub {
	opts := socketio.DefaultServerOptions()
	opts.SetMaxHttpBufferSize(5000000)
	opts.SetPath("/socket.io")
	opts.SetAllowEIO3(true)
	opts.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})
	io := socketio.NewServer(nil, opts)

	io.On("connection", func(clients ...any) {
		socket := clients[0].(*socketio.Socket)
		me := socket.Id()
		logrus.WithField("socket", me).Debug("client connected")

		socket.On("join-studio", func(datas ...any) {
			socket.Join(studioRoom)
			io.To(socketio.Room(me)).Emit("studio-joined")
			logrus.WithField("socket", me).Debug("client joined studio room")
		})

		socket.On("disconnect", func(datas ...any) {
			socket.RemoveAllListeners("")
			socket.Disconnect(true)
		})
	})

	return &Hub{io: io}
}

func (h *Hub) Server() *socketio.Server {
	return h.io
}

func (h *Hub) Close() {
	h.io.Close(nil)
}

// ProjectChange broadcasts the current number of projects after a mutation.
// Payloads stay small on purpose; clients refetch over the API.
func (h *Hub) ProjectChange(count int) {
	h.io.To(studioRoom).Emit("project-change", map[string]any{"projects": count})
}

func (h *Hub) LibrarySync(count int) {
	h.io.To(studioRoom).Emit("library-sync", map[string]any{"items": count})
}

func (h *Hub) ListingChange(count int) {
	h.io.To(studioRoom).Emit("listing-change", map[string]any{"listings": count})
}
