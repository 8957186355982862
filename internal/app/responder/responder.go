/*
Package responder implements the chat room's canned-answer AI assistant.

The assistant, 川小农, answers questions about Sichuan Agricultural
University by scanning the question for known keywords and returning the
matching canned reply. The Responder interface keeps the room decoupled
from this lookup so it can be swapped or faked in tests.
*/
package responder

import (
	"fmt"
	"strings"
)

// Responder produces the assistant's reply text for a user question.
type Responder interface {
	// Answer returns the reply for question. A non-nil error means the
	// assistant is unavailable; the caller notifies only the asking user.
	Answer(question string) (string, error)
}

// rule pairs trigger keywords with the canned answer they select.
type rule struct {
	keywords []string
	answer   string
}

// Assistant is the keyword-matched implementation of Responder.
type Assistant struct {
	rules []rule
}

// NewAssistant creates the 川小农 assistant with its built-in rule table.
// Rules are evaluated in order; the first keyword hit wins.
func NewAssistant() *Assistant {
	return &Assistant{
		rules: []rule{
			{
				keywords: []string{"你是谁", "你是", "介绍", "名字", "小美"},
				answer:   "你好~我是川小农，是这个Amazing聊天室专属的AI助手，小名叫小美！我是四川农业大学的AI小助手，性别是女。我的主要功能是接收用户提问，回答与四川农业大学有关的问题。有任何关于川农大的问题都可以随时问我哦！",
			},
			{
				keywords: []string{"地址", "在哪里"},
				answer:   "四川农业大学有三个校区：雅安校区位于四川省雅安市雨城区新康路46号；成都校区位于成都市温江区惠民路211号；都江堰校区位于成都市都江堰市建设路288号。",
			},
			{
				keywords: []string{"川农大", "四川农业大学", "学校"},
				answer:   "四川农业大学是国家\"双一流\"建设高校，也是国家\"211工程\"重点建设大学。学校有雅安、成都和都江堰三个校区，学科涵盖农学、理学、工学、经济学、管理学等多个领域。",
			},
			{
				keywords: []string{"专业", "学科", "学院"},
				answer:   "四川农业大学设有农学院、动物科技学院、林学院、园艺学院、资源学院等多个学院。优势学科包括作物学、畜牧学、兽医学、林学、农林经济管理等。学校有多个国家级和省级重点学科。",
			},
			{
				keywords: []string{"历史", "成立", "创建", "多少年"},
				answer:   "四川农业大学前身是1906年创办的四川通省农业学堂，1935年成为省立四川大学农学院，1956年迁至雅安独立建校为四川农学院，1985年更名为四川农业大学。学校至今已有一百多年的办学历史。",
			},
			{
				keywords: []string{"生活", "宿舍", "食堂", "校园"},
				answer:   "四川农业大学各校区环境优美，设施完善。学生宿舍提供良好的住宿条件，配有空调、独立卫生间等设施。学校食堂菜品丰富多样，能够满足不同学生的饮食需求。校园内还有图书馆、体育馆、实验室等各类学习和生活设施。",
			},
			{
				keywords: []string{"招生", "分数线", "报考", "录取"},
				answer:   "四川农业大学每年面向全国招生，具体的招生计划、分数线和报考要求可以关注学校官方网站或招生办公室发布的最新信息。学校提供本科、硕士、博士等多层次的教育项目。",
			},
		},
	}
}

// Answer scans the question for each rule's keywords in order and
// returns the first matching canned reply, or the default reply echoing
// the question when nothing matches.
func (a *Assistant) Answer(question string) (string, error) {
	trimmed := strings.TrimSpace(question)

	for _, rule := range a.rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(trimmed, keyword) {
				return rule.answer, nil
			}
		}
	}

	return fmt.Sprintf("感谢你的提问！关于\"%s\"，我还在学习中。不过我可以回答四川农业大学的相关问题，比如学校历史、专业设置、校园环境等。你有什么关于川农大的问题想问我吗？", question), nil
}
