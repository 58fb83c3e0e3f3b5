package theater

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theaterparty/server/internal/domain"
)

func admitIdentified(t *testing.T, theater *Theater, memberID, name string) {
	t.Helper()

	_, err := theater.AdmitMember(context.Background(), memberID)
	require.NoError(t, err)
	_, err = theater.SetMemberInfo(context.Background(), memberID, domain.ChatUserInfo{
		Name:      name,
		AvatarURL: "/images/avatars/avatar1.jpg",
	})
	require.NoError(t, err)
}

func TestAnonymousMessageDropped(t *testing.T) {
	theater, _ := newTestTheater(t)
	ctx := context.Background()

	_, err := theater.AdmitMember(ctx, "m1")
	require.NoError(t, err)

	outs, err := theater.WroteMessage(ctx, "m1", "hello")
	require.NoError(t, err)
	assert.Empty(t, outs, "anonymous members cannot chat")
}

func TestChatMessageEscapedAndBroadcast(t *testing.T) {
	theater, _ := newTestTheater(t)
	ctx := context.Background()

	admitIdentified(t, theater, "m1", "alice")

	outs, err := theater.WroteMessage(ctx, "m1", "<script>alert(1)</script>")
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Empty(t, outs[0].MemberID, "chat messages are broadcast")
	assert.Equal(t, MsgChatMessage, outs[0].Type)

	msg := outs[0].Payload.(domain.ChatMessage)
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", msg.BodyHTML)
	assert.Equal(t, "m1", msg.SenderID)
	assert.Equal(t, "alice", msg.SenderName)
	assert.False(t, msg.IsAnnouncement)
}

func TestJoinAnnouncement(t *testing.T) {
	theater, _ := newTestTheater(t)
	ctx := context.Background()

	_, err := theater.AdmitMember(ctx, "m1")
	require.NoError(t, err)

	outs, err := theater.SetMemberInfo(ctx, "m1", domain.ChatUserInfo{
		Name:      "bob",
		AvatarURL: "/images/avatars/avatar2.jpg",
	})
	require.NoError(t, err)

	rosterOut, ok := findOutbound(outs, MsgAudienceInfoSet)
	require.True(t, ok, "identity change must push the roster")
	roster := rosterOut.Payload.([]RosterEntry)
	require.Len(t, roster, 1)
	assert.Equal(t, "bob", roster[0].Name)

	announceOut, ok := findOutbound(outs, MsgChatAnnounce)
	require.True(t, ok, "fresh sign-in must be announced")
	assert.Equal(t, "<strong>bob</strong> joined the Chat.", announceOut.Payload)
}

func TestResumedIdentitySkipsAnnouncement(t *testing.T) {
	theater, _ := newTestTheater(t)
	ctx := context.Background()

	_, err := theater.AdmitMember(ctx, "m1")
	require.NoError(t, err)

	outs, err := theater.SetMemberInfo(ctx, "m1", domain.ChatUserInfo{
		Name:      "bob",
		AvatarURL: "/images/avatars/avatar2.jpg",
		Resumed:   true,
	})
	require.NoError(t, err)

	_, ok := findOutbound(outs, MsgAudienceInfoSet)
	assert.True(t, ok, "resumed identity still updates the roster")
	_, ok = findOutbound(outs, MsgChatAnnounce)
	assert.False(t, ok, "resumed identity must not be re-announced")
}

func TestIdentityRejectedSilently(t *testing.T) {
	theater, _ := newTestTheater(t)
	ctx := context.Background()

	_, err := theater.AdmitMember(ctx, "m1")
	require.NoError(t, err)

	for name, info := range map[string]domain.ChatUserInfo{
		"foreign avatar": {Name: "bob", AvatarURL: "https://evil.example/x.jpg"},
		"empty name":     {Name: "   ", AvatarURL: "/images/avatars/avatar1.jpg"},
		"name too long":  {Name: "abcdefghijabcdefghijabcdefghij", AvatarURL: "/images/avatars/avatar1.jpg"},
	} {
		outs, err := theater.SetMemberInfo(ctx, "m1", info)
		require.NoError(t, err, name)
		assert.Empty(t, outs, name)
	}
}

func TestIdentityEscaped(t *testing.T) {
	theater, _ := newTestTheater(t)
	ctx := context.Background()

	_, err := theater.AdmitMember(ctx, "m1")
	require.NoError(t, err)

	outs, err := theater.SetMemberInfo(ctx, "m1", domain.ChatUserInfo{
		Name:      "  <b>bob</b>  ",
		AvatarURL: "/images/avatars/avatar1.jpg",
	})
	require.NoError(t, err)

	rosterOut, ok := findOutbound(outs, MsgAudienceInfoSet)
	require.True(t, ok)
	roster := rosterOut.Payload.([]RosterEntry)
	require.Len(t, roster, 1)
	assert.Equal(t, "&lt;b&gt;bob&lt;/b&gt;", roster[0].Name, "name must be trimmed and escaped")
}

func TestClearIdentity(t *testing.T) {
	theater, _ := newTestTheater(t)
	ctx := context.Background()

	admitIdentified(t, theater, "m1", "alice")

	outs, err := theater.ClearMemberInfo(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, outs, 1)
	roster := outs[0].Payload.([]RosterEntry)
	assert.Empty(t, roster, "cleared member must leave the roster")

	outs, err = theater.ClearMemberInfo(ctx, "m1")
	require.NoError(t, err)
	assert.Empty(t, outs, "clearing an anonymous member is a no-op")

	outs, err = theater.WroteMessage(ctx, "m1", "hello")
	require.NoError(t, err)
	assert.Empty(t, outs, "cleared member cannot chat")
}

func TestRosterSortedByID(t *testing.T) {
	theater, _ := newTestTheater(t)

	admitIdentified(t, theater, "m-b", "bob")
	admitIdentified(t, theater, "m-a", "alice")
	admitIdentified(t, theater, "m-c", "carol")

	outs, err := theater.ClearMemberInfo(context.Background(), "m-c")
	require.NoError(t, err)
	roster := outs[0].Payload.([]RosterEntry)
	require.Len(t, roster, 2)
	assert.Equal(t, "m-a", roster[0].ID)
	assert.Equal(t, "m-b", roster[1].ID)
}

func TestChatHistoryReplay(t *testing.T) {
	theater, _ := newTestTheater(t)
	ctx := context.Background()

	admitIdentified(t, theater, "m1", "alice")

	for i := 0; i < 25; i++ {
		_, err := theater.WroteMessage(ctx, "m1", fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	outs, err := theater.AdmitMember(ctx, "m2")
	require.NoError(t, err)

	var replayed []string
	for _, out := range outs {
		switch out.Type {
		case MsgChatMessage:
			replayed = append(replayed, out.Payload.(domain.ChatMessage).BodyHTML)
		case MsgChatAnnounce:
			replayed = append(replayed, out.Payload.(string))
		}
	}
	require.Len(t, replayed, DefaultConfig().HistoryWindow, "replay is capped at the history window")
	assert.Equal(t, "message 24", replayed[len(replayed)-1], "replay must end with the newest message")
	// 26 stored entries (join announcement + 25 messages), so the
	// window starts at message 5
	assert.Equal(t, "message 5", replayed[0], "replay must keep chronological order")
}
