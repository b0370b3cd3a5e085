package syncbridge

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/example/sassynary-shop/internal/infrastructure/docstore"
)

// Address is one saved delivery address.
type Address struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	Pincode   string    `json:"pincode"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate returns a message per missing field; nil when the address is complete.
func (a Address) Validate() map[string]string {
	fields := map[string]string{}
	required := []struct{ name, value string }{
		{"label", a.Label},
		{"full_name", a.FullName},
		{"phone", a.Phone},
		{"street", a.Street},
		{"city", a.City},
		{"pincode", a.Pincode},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			fields[f.name] = "required"
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (a Address) document() map[string]any {
	return map[string]any{
		"label":    a.Label,
		"fullName": a.FullName,
		"phone":    a.Phone,
		"street":   a.Street,
		"city":     a.City,
		"pincode":  a.Pincode,
	}
}

func addressFromDocument(doc docstore.Document) Address {
	return Address{
		ID:        doc.ID,
		Label:     toString(doc.Data["label"]),
		FullName:  toString(doc.Data["fullName"]),
		Phone:     toString(doc.Data["phone"]),
		Street:    toString(doc.Data["street"]),
		City:      toString(doc.Data["city"]),
		Pincode:   toString(doc.Data["pincode"]),
		CreatedAt: doc.CreatedAt,
	}
}

func addressCollection(userID string) string { return "users/" + userID + "/addresses" }

// AddressBook holds each user's saved addresses, newest first.
type AddressBook struct {
	bridge *Bridge
	gate   loadGate

	mu    sync.RWMutex
	books map[string][]Address
}

func NewAddressBook(b *Bridge) *AddressBook {
	return &AddressBook{
		bridge: b,
		books:  make(map[string][]Address),
	}
}

func (ab *AddressBook) Load(ctx context.Context, userID string) {
	ab.gate.do(ctx, userID, func() {
		q := docstore.Query{OrderBy: docstore.CreatedAtField, Desc: true}
		err := ab.bridge.watch(ctx, "addresses/"+userID, func(watchCtx context.Context, delivered func()) error {
			return ab.bridge.remote.WatchCollection(watchCtx, addressCollection(userID), q, func(docs []docstore.Document) {
				list := make([]Address, len(docs))
				for i, d := range docs {
					list[i] = addressFromDocument(d)
				}
				ab.replace(userID, list)
				delivered()
			})
		})
		if err == nil {
			return
		}

		var list []Address
		if ab.bridge.loadLocal(ctx, NamespaceAddresses, userID, &list) {
			ab.replace(userID, list)
		}
	})
}

// Add saves a new address. When the remote write fails the entry gets a
// timestamp id and the whole current list is written to local storage.
func (ab *AddressBook) Add(ctx context.Context, userID string, a Address) (Address, Outcome) {
	ab.Load(ctx, userID)
	a.CreatedAt = ab.bridge.now()

	outcome := ab.bridge.write(ctx, NamespaceAddresses, userID,
		func(ctx context.Context, remote docstore.Store) error {
			id, err := remote.Add(ctx, addressCollection(userID), a.document())
			if err != nil {
				return err
			}
			a.ID = id
			ab.prepend(userID, a)
			return nil
		},
		func(ctx context.Context) error {
			a.ID = ab.localID(userID, a.CreatedAt)
			list := ab.prepend(userID, a)
			return ab.bridge.saveLocal(ctx, NamespaceAddresses, userID, list)
		},
	)
	return a, outcome
}

// Delete removes exactly one address by id.
func (ab *AddressBook) Delete(ctx context.Context, userID, id string) Outcome {
	ab.Load(ctx, userID)

	ab.mu.Lock()
	list := slices.DeleteFunc(slices.Clone(ab.books[userID]), func(a Address) bool { return a.ID == id })
	ab.books[userID] = list
	ab.mu.Unlock()

	return ab.bridge.write(ctx, NamespaceAddresses, userID,
		func(ctx context.Context, remote docstore.Store) error {
			return remote.Delete(ctx, addressCollection(userID)+"/"+id)
		},
		func(ctx context.Context) error {
			return ab.bridge.saveLocal(ctx, NamespaceAddresses, userID, ab.List(userID))
		},
	)
}

func (ab *AddressBook) List(userID string) []Address {
	ab.mu.RLock()
	defer ab.mu.RUnlock()
	list := slices.Clone(ab.books[userID])
	if list == nil {
		list = []Address{}
	}
	return list
}

// prepend inserts a unless an entry with its id is already present (a live
// watch may have delivered it first) and returns a copy of the list.
func (ab *AddressBook) prepend(userID string, a Address) []Address {
	ab.mu.Lock()
	defer ab.mu.Unlock()

	list := ab.books[userID]
	if !slices.ContainsFunc(list, func(x Address) bool { return x.ID == a.ID }) {
		list = append([]Address{a}, list...)
		ab.books[userID] = list
	}
	return slices.Clone(list)
}

// localID derives an id from the creation time, bumped past any id already in use.
func (ab *AddressBook) localID(userID string, at time.Time) string {
	ab.mu.RLock()
	defer ab.mu.RUnlock()

	ms := at.UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if !slices.ContainsFunc(ab.books[userID], func(x Address) bool { return x.ID == id }) {
			return id
		}
		ms++
	}
}

func (ab *AddressBook) replace(userID string, list []Address) {
	ab.mu.Lock()
	defer ab.mu.Unlock()
	ab.books[userID] = list
}
