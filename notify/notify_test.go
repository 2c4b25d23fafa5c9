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

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photopump/photopump/store"
)

type fakePush struct {
	sent []string // payloads
	subs []string
	err  error
}

func (p *fakePush) Send(_ context.Context, sub string, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.subs = append(p.subs, sub)
	p.sent = append(p.sent, string(payload))
	return nil
}

func buildTestService(t *testing.T, push PushSender) (*Service, *store.Store) {
	st, err := store.Open(filepath.Join(t.TempDir(), "photopump.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return NewService(st, push), st
}

func TestNotifyStoresAndPushes(t *testing.T) {
	push := &fakePush{}
	svc, _ := buildTestService(t, push)
	ctx := context.Background()

	require.NoError(t, svc.RegisterRecipient(ctx, "dev-1", "Alice", "firefox", true))
	require.NoError(t, svc.SetPushSubscription(ctx, "dev-1", `{"endpoint":"https://push/abc"}`, true))

	require.NoError(t, svc.Notify(ctx, "dev-1", "New photos!", "3 photos were added", store.KindAdmin, "photo", 42))

	unread, err := svc.ListUnread(ctx, "dev-1", 0)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "New photos!", unread[0].Title)

	require.Len(t, push.sent, 1)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(push.sent[0]), &payload))
	assert.Equal(t, "New photos!", payload["title"])
	assert.Equal(t, "3 photos were added", payload["message"])
	assert.Equal(t, "admin", payload["type"])
	assert.Equal(t, "photo", payload["content_type"])
}

func TestNotifySkipsPushWithoutSubscription(t *testing.T) {
	push := &fakePush{}
	svc, _ := buildTestService(t, push)
	ctx := context.Background()

	// Recipient exists but never opted in to push.
	require.NoError(t, svc.RegisterRecipient(ctx, "dev-1", "", "", true))
	require.NoError(t, svc.Notify(ctx, "dev-1", "t", "b", store.KindAdmin, "", 0))

	// Unknown recipient: row still stored, nothing pushed.
	require.NoError(t, svc.Notify(ctx, "ghost", "t", "b", store.KindAdmin, "", 0))

	assert.Empty(t, push.sent)

	unread, err := svc.ListUnread(ctx, "ghost", 0)
	require.NoError(t, err)
	assert.Len(t, unread, 1)
}

func TestNotifyPushFailureIsSwallowed(t *testing.T) {
	push := &fakePush{err: errors.New("endpoint gone")}
	svc, _ := buildTestService(t, push)
	ctx := context.Background()

	require.NoError(t, svc.RegisterRecipient(ctx, "dev-1", "", "", true))
	require.NoError(t, svc.SetPushSubscription(ctx, "dev-1", `{"endpoint":"https://push/abc"}`, true))

	assert.NoError(t, svc.Notify(ctx, "dev-1", "t", "b", store.KindAdmin, "", 0))
}

func TestNotifyRespectsDisabledRecipient(t *testing.T) {
	push := &fakePush{}
	svc, _ := buildTestService(t, push)
	ctx := context.Background()

	require.NoError(t, svc.RegisterRecipient(ctx, "dev-1", "", "", true))
	require.NoError(t, svc.SetPushSubscription(ctx, "dev-1", `{"endpoint":"https://push/abc"}`, true))
	require.NoError(t, svc.ToggleEnabled(ctx, "dev-1", false))

	require.NoError(t, svc.Notify(ctx, "dev-1", "t", "b", store.KindAdmin, "", 0))
	assert.Empty(t, push.sent)
}

func TestBroadcast(t *testing.T) {
	push := &fakePush{}
	svc, _ := buildTestService(t, push)
	ctx := context.Background()

	count, err := svc.Broadcast(ctx, "hello", "world")
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, svc.RegisterRecipient(ctx, "dev-1", "", "", true))
	require.NoError(t, svc.SetPushSubscription(ctx, "dev-1", `{"endpoint":"https://push/1"}`, true))
	require.NoError(t, svc.RegisterRecipient(ctx, "dev-2", "", "", true))
	require.NoError(t, svc.RegisterRecipient(ctx, "dev-3", "", "", false))

	count, err = svc.Broadcast(ctx, "hello", "world")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Only dev-1 has push; dev-2 gets the row only.
	require.Len(t, push.sent, 1)
	assert.Equal(t, []string{`{"endpoint":"https://push/1"}`}, push.subs)
}

func TestMarkReadAndDeleteScoping(t *testing.T) {
	svc, _ := buildTestService(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, "dev-1", "a", "b", store.KindAdmin, "", 0))
	unread, err := svc.ListUnread(ctx, "dev-1", 0)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	id := unread[0].ID

	ok, err := svc.MarkRead(ctx, "dev-2", id)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.MarkRead(ctx, "dev-1", id)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := svc.MarkAllRead(ctx, "dev-1")
	require.NoError(t, err)
	assert.Zero(t, n)

	ok, err = svc.Delete(ctx, "dev-1", id)
	require.NoError(t, err)
	assert.True(t, ok)
}
