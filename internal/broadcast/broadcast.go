package broadcast

import "sync"

// Message is one server-sent event: the bus channel name and its JSON payload.
type Message struct {
	Event string
	Msg   string
}

type Broadcaster struct {
	Mu      sync.Mutex
	Clients map[chan Message]bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		Clients: make(map[chan Message]bool),
	}
}

func (b *Broadcaster) Subscribe() chan Message {
	ch := make(chan Message, 32)
	b.Mu.Lock()
	b.Clients[ch] = true
	b.Mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan Message) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	if _, ok := b.Clients[ch]; !ok {
		return
	}
	delete(b.Clients, ch)
	close(ch)
}

// Broadcast never blocks: subscribers with a full buffer miss the message.
func (b *Broadcaster) Broadcast(event string, message string) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- Message{Event: event, Msg: message}:
		default:
			// skip clients with full data channels
		}
	}
}

// Close unsubscribes every client, ending their streams.
func (b *Broadcaster) Close() {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		delete(b.Clients, ch)
		close(ch)
	}
}
