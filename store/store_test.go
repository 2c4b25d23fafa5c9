/*
 * PhotoPump - Copyright (C) 2024 The PhotoPump Authors.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 2, and only
 * version 2 as published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 59 Temple Place, Suite 330, Boston, MA  02111-1307  USA
 */

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestStore(t *testing.T) *Store {
	s, err := Open(filepath.Join(t.TempDir(), "photopump.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestIngestionLogRoundTrip(t *testing.T) {
	s := buildTestStore(t)
	ctx := context.Background()

	e := IngestionLogEntry{
		SenderEmail:  "guest@example.com",
		Subject:      "wedding pics",
		Status:       StatusSuccess,
		PhotoCount:   3,
		ResponseSent: true,
		ResponseType: ResponseConfirmation,
	}
	require.NoError(t, s.AppendIngestionLog(ctx, &e))
	assert.NotZero(t, e.ID)
	assert.False(t, e.ReceivedAt.IsZero())

	require.NoError(t, s.AppendIngestionLog(ctx, &IngestionLogEntry{
		SenderEmail: "other@example.com",
		Status:      StatusRejected,
	}))

	entries, err := s.ListIngestionLog(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "other@example.com", entries[0].SenderEmail)
	assert.Equal(t, ResponseNone, entries[0].ResponseType)
	assert.Equal(t, "guest@example.com", entries[1].SenderEmail)
	assert.Equal(t, 3, entries[1].PhotoCount)
	assert.True(t, entries[1].ResponseSent)
}

func TestAddPhotosTransactional(t *testing.T) {
	s := buildTestStore(t)
	ctx := context.Background()

	photos := []Photo{
		{Filename: "20240601_120000_a.jpg", OriginalFilename: "a.jpg", UploaderName: "alice"},
		{Filename: "20240601_120000_b.mp4", OriginalFilename: "b.mp4", UploaderName: "alice", MediaType: "video"},
	}
	require.NoError(t, s.AddPhotos(ctx, photos))
	assert.NotZero(t, photos[0].ID)
	assert.NotZero(t, photos[1].ID)
	assert.Equal(t, "image", photos[0].MediaType)

	listed, err := s.ListPhotos(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "20240601_120000_a.jpg", listed[0].Filename)
	assert.Equal(t, "video", listed[1].MediaType)

	require.NoError(t, s.AddPhotos(ctx, nil))
}

func TestMirrorSyncLog(t *testing.T) {
	s := buildTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendMirrorSync(ctx, &MirrorSyncRecord{
		Filename: "x.jpg",
		FilePath: "/data/uploads/x.jpg",
		Status:   StatusSuccess,
	}))
	require.NoError(t, s.AppendMirrorSync(ctx, &MirrorSyncRecord{
		Filename:     "y.jpg",
		FilePath:     "/data/uploads/y.jpg",
		Status:       StatusError,
		ErrorMessage: "upload failed: 500",
	}))

	records, err := s.ListMirrorSync(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "y.jpg", records[0].Filename)
	assert.Equal(t, StatusError, records[0].Status)
	assert.Equal(t, StatusSuccess, records[1].Status)
}

func TestRecipientUpsert(t *testing.T) {
	s := buildTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertRecipient(ctx, "dev-1", "Alice", "firefox", true))
	require.NoError(t, s.UpsertRecipient(ctx, "dev-1", "Alice B", "chrome", true))

	r, err := s.GetRecipient(ctx, "dev-1")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "Alice B", r.DisplayName)
	assert.Equal(t, "chrome", r.DeviceInfo)
	assert.True(t, r.NotificationsEnabled)

	require.NoError(t, s.SetRecipientEnabled(ctx, "dev-1", false))
	r, err = s.GetRecipient(ctx, "dev-1")
	require.NoError(t, err)
	assert.False(t, r.NotificationsEnabled)

	require.NoError(t, s.SetPushSubscription(ctx, "dev-1", `{"endpoint":"https://push"}`, true))
	r, err = s.GetRecipient(ctx, "dev-1")
	require.NoError(t, err)
	assert.True(t, r.PushEnabled)
	assert.Contains(t, r.PushSubscription, "endpoint")

	unknown, err := s.GetRecipient(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, unknown)
}

func TestBroadcastNotification(t *testing.T) {
	s := buildTestStore(t)
	ctx := context.Background()

	// No recipients yet: no error, zero rows.
	n, err := s.BroadcastNotification(ctx, "hello", "world")
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, s.UpsertRecipient(ctx, "dev-1", "", "", true))
	require.NoError(t, s.UpsertRecipient(ctx, "dev-2", "", "", true))
	require.NoError(t, s.UpsertRecipient(ctx, "dev-3", "", "", false))

	n, err = s.BroadcastNotification(ctx, "hello", "world")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	unread, err := s.ListUnreadNotifications(ctx, "dev-1", 10)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "hello", unread[0].Title)
	assert.Equal(t, KindAdmin, unread[0].Kind)

	unread, err = s.ListUnreadNotifications(ctx, "dev-3", 10)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestNotificationScoping(t *testing.T) {
	s := buildTestStore(t)
	ctx := context.Background()

	mine := Notification{RecipientIdentifier: "dev-1", Title: "a", Body: "b"}
	theirs := Notification{RecipientIdentifier: "dev-2", Title: "c", Body: "d"}
	require.NoError(t, s.InsertNotification(ctx, &mine))
	require.NoError(t, s.InsertNotification(ctx, &theirs))

	// Acting on someone else's row matches nothing.
	ok, err := s.MarkNotificationRead(ctx, "dev-1", theirs.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteNotification(ctx, "dev-1", theirs.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.MarkNotificationRead(ctx, "dev-1", mine.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Marking twice is a no-op.
	ok, err = s.MarkNotificationRead(ctx, "dev-1", mine.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	unread, err := s.ListUnreadNotifications(ctx, "dev-2", 10)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	ok, err = s.DeleteNotification(ctx, "dev-2", theirs.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	s := buildTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.InsertNotification(ctx, &Notification{
			RecipientIdentifier: "dev-1", Title: "t", Body: "b",
		}))
	}
	require.NoError(t, s.InsertNotification(ctx, &Notification{
		RecipientIdentifier: "dev-2", Title: "t", Body: "b",
	}))

	n, err := s.MarkAllNotificationsRead(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	unread, err := s.ListUnreadNotifications(ctx, "dev-1", 10)
	require.NoError(t, err)
	assert.Empty(t, unread)

	unread, err = s.ListUnreadNotifications(ctx, "dev-2", 10)
	require.NoError(t, err)
	assert.Len(t, unread, 1)
}

func TestListUnreadLimitAndOrder(t *testing.T) {
	s := buildTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		tick := base.Add(time.Duration(i) * time.Minute)
		s.SetClock(func() time.Time { return tick })
		require.NoError(t, s.InsertNotification(ctx, &Notification{
			RecipientIdentifier: "dev-1", Title: "t", Body: "b",
		}))
	}

	unread, err := s.ListUnreadNotifications(ctx, "dev-1", 10)
	require.NoError(t, err)
	require.Len(t, unread, 10)
	assert.True(t, unread[0].CreatedAt.Equal(base.Add(14*time.Minute)))
	assert.True(t, unread[0].CreatedAt.After(unread[9].CreatedAt))
}

func TestSettings(t *testing.T) {
	s := buildTestStore(t)
	ctx := context.Background()

	v, err := s.GetSetting(ctx, "imap_server", "imap.gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "imap.gmail.com", v)

	require.NoError(t, s.SetSetting(ctx, "imap_server", "mail.example.com"))
	require.NoError(t, s.SetSetting(ctx, "enabled", "true"))
	require.NoError(t, s.SetSetting(ctx, "imap_server", "mail2.example.com"))

	v, err = s.GetSetting(ctx, "imap_server", "imap.gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "mail2.example.com", v)

	all, err := s.AllSettings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "enabled", all[0][0])
	assert.Equal(t, "imap_server", all[1][0])
}
