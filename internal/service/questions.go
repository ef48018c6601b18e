package service

import "finstar_backend/internal/model"

// 对战题库，题量大于单局题数以保证每局有轮换空间
var quizQuestionBank = []model.QuizQuestion{
	{
		ID:            "q1",
		Question:      "What is compound interest?",
		Options:       []string{"Interest on the principal only", "Interest on principal plus accumulated interest", "A fixed monthly fee", "A type of bank account"},
		CorrectAnswer: 1,
		Category:      "savings",
	},
	{
		ID:            "q2",
		Question:      "What does diversification reduce?",
		Options:       []string{"Returns", "Taxes", "Risk", "Liquidity"},
		CorrectAnswer: 2,
		Category:      "investing",
	},
	{
		ID:            "q3",
		Question:      "An emergency fund should typically cover how many months of expenses?",
		Options:       []string{"1 month", "3 to 6 months", "12 months", "24 months"},
		CorrectAnswer: 1,
		Category:      "savings",
	},
	{
		ID:            "q4",
		Question:      "What is a budget?",
		Options:       []string{"A loan from a bank", "A plan for income and spending", "A type of investment", "A credit score"},
		CorrectAnswer: 1,
		Category:      "budgeting",
	},
	{
		ID:            "q5",
		Question:      "Which of these usually has the highest long-term return?",
		Options:       []string{"Savings account", "Government bonds", "Stocks", "Cash under the mattress"},
		CorrectAnswer: 2,
		Category:      "investing",
	},
	{
		ID:            "q6",
		Question:      "What is inflation?",
		Options:       []string{"Rising prices over time", "Falling interest rates", "A stock market crash", "A government subsidy"},
		CorrectAnswer: 0,
		Category:      "economy",
	},
	{
		ID:            "q7",
		Question:      "What does APR stand for?",
		Options:       []string{"Annual Percentage Rate", "Average Payment Ratio", "Asset Price Return", "Annual Profit Report"},
		CorrectAnswer: 0,
		Category:      "credit",
	},
	{
		ID:            "q8",
		Question:      "Paying only the minimum on a credit card leads to",
		Options:       []string{"Faster debt payoff", "More interest paid over time", "A better credit score", "Lower APR"},
		CorrectAnswer: 1,
		Category:      "credit",
	},
	{
		ID:            "q9",
		Question:      "What is a stock?",
		Options:       []string{"A loan to a company", "Ownership share in a company", "A savings product", "A type of insurance"},
		CorrectAnswer: 1,
		Category:      "investing",
	},
	{
		ID:            "q10",
		Question:      "The 50/30/20 rule allocates 20% of income to",
		Options:       []string{"Wants", "Needs", "Savings and debt repayment", "Entertainment"},
		CorrectAnswer: 2,
		Category:      "budgeting",
	},
	{
		ID:            "q11",
		Question:      "What is liquidity?",
		Options:       []string{"How fast an asset can be turned into cash", "The total value of assets", "The interest rate on a loan", "A company's yearly profit"},
		CorrectAnswer: 0,
		Category:      "investing",
	},
	{
		ID:            "q12",
		Question:      "A higher credit score generally means",
		Options:       []string{"Higher loan interest rates", "Lower loan interest rates", "No access to credit", "Higher taxes"},
		CorrectAnswer: 1,
		Category:      "credit",
	},
}

// 单局下发的题数
const questionsPerMatch = 10
