package domain

import "strings"

// WatchList 是某个问题的观察者邮箱集合。
// 内存中保持去重、无空项的切片；持久化时序列化为旧版的
// 逗号连接字符串。邮箱按原样精确匹配，不做大小写归一化。
type WatchList []string

// NewWatchList 由若干邮箱构造集合，丢弃空项并去重。
func NewWatchList(emails ...string) WatchList {
	list := WatchList{}
	for _, e := range emails {
		list = list.Add(e)
	}
	return list
}

// ParseWatchList 反序列化逗号连接的邮箱串。
func ParseWatchList(s string) WatchList {
	return NewWatchList(strings.Split(s, ",")...)
}

// Contains 报告 email 是否在集合中。
func (w WatchList) Contains(email string) bool {
	for _, e := range w {
		if e == email {
			return true
		}
	}
	return false
}

// Add 返回加入 email 之后的集合；空白或已存在时原样返回。
func (w WatchList) Add(email string) WatchList {
	email = strings.TrimSpace(email)
	if email == "" || w.Contains(email) {
		return w
	}
	return append(w, email)
}

// Remove 返回移除 email 之后的集合。
func (w WatchList) Remove(email string) WatchList {
	out := make(WatchList, 0, len(w))
	for _, e := range w {
		if e != email {
			out = append(out, e)
		}
	}
	return out
}

// Serialize 以旧版逗号连接格式输出集合。
func (w WatchList) Serialize() string {
	return strings.Join(w, ",")
}
