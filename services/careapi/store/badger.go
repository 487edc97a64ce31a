// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/meridianhealth/portal/pkg/datatypes"
)

// Key prefixes. Records are JSON values under typed keys so prefix
// scans return one record type at a time.
const (
	prefixUser      = "user/"
	prefixUserEmail = "email/" // email -> user ID
	prefixCycle     = "cycle/" // cycle/<userID>/<cycleID>
	prefixAppt      = "appt/"
	prefixResult    = "result/"
	prefixPost      = "post/"
)

// Badger is the BadgerDB-backed Store.
type Badger struct {
	db *badger.DB
}

var _ Store = (*Badger)(nil)

// OpenBadger opens (creating if needed) a Badger store at dir.
func OpenBadger(dir string) (*Badger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (b *Badger) get(key string, out any) error {
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return err
}

// scan visits every value under prefix in key order.
func (b *Badger) scan(prefix string, visit func(val []byte) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := it.Item().Value(visit); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *Badger) PutUser(u User) error {
	if err := b.put(prefixUser+u.ID, u); err != nil {
		return err
	}
	return b.put(prefixUserEmail+strings.ToLower(u.Email), u.ID)
}

func (b *Badger) UserByEmail(email string) (*User, error) {
	var id string
	if err := b.get(prefixUserEmail+strings.ToLower(email), &id); err != nil {
		return nil, err
	}
	return b.UserByID(id)
}

func (b *Badger) UserByID(id string) (*User, error) {
	var u User
	if err := b.get(prefixUser+id, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (b *Badger) PutCycle(c datatypes.MenstrualCycle) error {
	return b.put(prefixCycle+c.UserID+"/"+c.ID, c)
}

func (b *Badger) CyclesByUser(userID string) ([]datatypes.MenstrualCycle, error) {
	var out []datatypes.MenstrualCycle
	err := b.scan(prefixCycle+userID+"/", func(val []byte) error {
		var c datatypes.MenstrualCycle
		if err := json.Unmarshal(val, &c); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

func (b *Badger) CycleByID(userID, cycleID string) (*datatypes.MenstrualCycle, error) {
	var c datatypes.MenstrualCycle
	if err := b.get(prefixCycle+userID+"/"+cycleID, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (b *Badger) PutAppointment(a datatypes.Appointment) error {
	return b.put(prefixAppt+a.ID, a)
}

func (b *Badger) AppointmentByID(id string) (*datatypes.Appointment, error) {
	var a datatypes.Appointment
	if err := b.get(prefixAppt+id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (b *Badger) AppointmentsByPatient(patientID string) ([]datatypes.Appointment, error) {
	var out []datatypes.Appointment
	err := b.scan(prefixAppt, func(val []byte) error {
		var a datatypes.Appointment
		if err := json.Unmarshal(val, &a); err != nil {
			return err
		}
		if patientID == "" || a.PatientID == patientID {
			out = append(out, a)
		}
		return nil
	})
	return out, err
}

func (b *Badger) PutResult(r datatypes.TestResult) error {
	return b.put(prefixResult+r.ID, r)
}

func (b *Badger) ResultByID(id string) (*datatypes.TestResult, error) {
	var r datatypes.TestResult
	if err := b.get(prefixResult+id, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (b *Badger) ResultsByPatient(patientID string) ([]datatypes.TestResult, error) {
	var out []datatypes.TestResult
	err := b.scan(prefixResult, func(val []byte) error {
		var r datatypes.TestResult
		if err := json.Unmarshal(val, &r); err != nil {
			return err
		}
		if r.PatientID == patientID {
			out = append(out, r)
		}
		return nil
	})
	return out, err
}

func (b *Badger) PutPost(p datatypes.BlogPost) error {
	return b.put(prefixPost+p.Slug, p)
}

func (b *Badger) PostBySlug(slug string) (*datatypes.BlogPost, error) {
	var p datatypes.BlogPost
	if err := b.get(prefixPost+slug, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (b *Badger) Posts() ([]datatypes.BlogPost, error) {
	var out []datatypes.BlogPost
	err := b.scan(prefixPost, func(val []byte) error {
		var p datatypes.BlogPost
		if err := json.Unmarshal(val, &p); err != nil {
			return err
		}
		out = append(out, p)
		return nil
	})
	return out, err
}

func (b *Badger) Close() error {
	return b.db.Close()
}
