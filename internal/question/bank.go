package question

// DispositionItems is the fixed ordered catalogue of general past-behavior
// prompts (DLCQ). Items answered "yes" on the disposition survey become
// candidate comparison questions. The order is part of the protocol; do not
// reorder.
var DispositionItems = []string{
	"당신은 지금까지 살면서 가족이나 친구에게 거짓말을 해본 적이 있습니까?",
	"당신은 지금까지 살면서 누군가에게 단 한 번이라도 거짓말을 한 적이 있습니까?",
	"당신은 지금까지 살면서 실수를 저지른 뒤 그것을 비밀로 한 적이 있습니까?",
	"당신은 지금까지 살면서 규칙이나 규정을 어긴 적이 있습니까?",
	"당신은 지금까지 살면서 책임을 피하기 위해 거짓말을 한 적이 있습니까?",
	"당신은 지금까지 살면서 다른 사람의 흉이나 뒷담화를 한 적이 있습니까?",
	"당신은 지금까지 살면서 본인의 잘못을 타인에게 돌린 적이 있습니까?",
	"당신은 지금까지 살면서 가족들에게 말하지 못한 비밀이 있습니까?",
	"당신은 지금까지 살면서 본인의 잘못을 숨긴 사실이 있습니까?",
	"당신은 지금까지 살면서 없는 말을 꾸며서 말한 적이 있습니까?",
	"당신은 지금까지 살면서 나쁜 행동을 해본 적이 있습니까?",
	"당신은 지금까지 살면서 주변 사람들이 알면 안 되는 행동을 한 사실이 있습니까?",
	"당신은 지금까지 살면서 잘못된 것임을 알고도 행동한 적이 있습니까?",
	"당신은 지금까지 살면서 본인을 위해 남에게 피해를 준 적이 있습니까?",
	"당신은 지금까지 살면서 다른 사람을 미워하거나 시기한 적이 있습니까?",
	"당신은 지금까지 살면서 양심에 찔리는 행동을 한 적이 있습니까?",
	"당신은 지금까지 살면서 다른 사람에게 상처 되는 말을 한 적이 있습니까?",
}

// BankSize is the number of disposition survey items
func BankSize() int { return len(DispositionItems) }
