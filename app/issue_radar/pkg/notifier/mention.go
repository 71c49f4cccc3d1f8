package notifier

import "strings"

// unassigned Issue 无指派人时的展示文本
const unassigned = "Unassigned"

// MentionTable GitHub 用户名到 Slack 成员 ID 的映射，用户名不区分大小写
type MentionTable map[string]string

// NewMentionTable 复制并规范化映射表，空键值会被忽略
func NewMentionTable(m map[string]string) MentionTable {
	t := make(MentionTable, len(m))
	for user, id := range m {
		user = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(user, "@")))
		id = strings.TrimSpace(id)
		if user == "" || id == "" {
			continue
		}
		t[user] = id
	}
	return t
}

// Resolve 映射表命中时返回 <@ID>，否则返回 @username
func (t MentionTable) Resolve(username string) string {
	username = strings.TrimSpace(strings.TrimPrefix(username, "@"))
	if username == "" {
		return unassigned
	}
	if id, ok := t.lookup(username); ok {
		return "<@" + id + ">"
	}
	return "@" + username
}

// lookup 先按小写键查找，未命中时兼容未经 NewMentionTable 规范化的键
func (t MentionTable) lookup(username string) (string, bool) {
	if id, ok := t[strings.ToLower(username)]; ok && strings.TrimSpace(id) != "" {
		return strings.TrimSpace(id), true
	}
	for user, id := range t {
		user = strings.TrimSpace(strings.TrimPrefix(user, "@"))
		id = strings.TrimSpace(id)
		if id != "" && strings.EqualFold(user, username) {
			return id, true
		}
	}
	return "", false
}
