package quiz

import (
	"strings"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/model"
)

// defaultTemplateSubject serves subjects without their own templates.
const defaultTemplateSubject = "coding"

var questionTemplates = map[string]map[model.QuestionType][]string{
	"coding": {
		model.TypeMultipleChoice: {
			"What is the output of this Python code: {code}",
			"Which of the following is correct syntax for {concept}?",
			"What does this function do: {code}",
			"Which data structure is best for {use_case}?",
		},
		model.TypeFillBlank: {
			"Complete this Python function: def {function_name}(): {code}",
			"Fill in the missing code: {code}",
			"What keyword is used for {concept}?",
			"Complete the loop: for i in {range}: {code}",
		},
		model.TypeCodeCompletion: {
			"Write a function that {description}",
			"Implement a {data_structure} class with {methods}",
			"Create a program that {task}",
			"Write code to {specific_task}",
		},
	},
	"math": {
		model.TypeMultipleChoice: {
			"What is the derivative of {function}?",
			"Solve this equation: {equation}",
			"What is the value of {expression}?",
			"Which formula is used for {concept}?",
		},
		model.TypeFillBlank: {
			"The derivative of {function} is ___",
			"The solution to {equation} is ___",
			"The value of {expression} equals ___",
			"The formula for {concept} is ___",
		},
		model.TypeCodeCompletion: {
			"Calculate {mathematical_operation}",
			"Solve this problem: {problem_description}",
			"Find the value of {variable} in {equation}",
			"Prove that {mathematical_statement}",
		},
	},
	"ielts": {
		model.TypeMultipleChoice: {
			"Which is the correct form of {grammar_concept}?",
			"What is the meaning of {word}?",
			"Which sentence is grammatically correct?",
			"What is the main idea of this passage: {passage}",
		},
		model.TypeFillBlank: {
			"Complete the sentence: {sentence}",
			"Choose the correct word: {sentence_with_blank}",
			"Fill in the preposition: {sentence}",
			"Complete the idiom: {idiom_start}",
		},
		model.TypeCodeCompletion: {
			"Write an essay introduction about {topic}",
			"Paraphrase this sentence: {sentence}",
			"Write a conclusion for this essay about {topic}",
			"Summarize this passage: {passage}",
		},
	},
	"physics": {
		model.TypeMultipleChoice: {
			"What is the unit of {physical_quantity}?",
			"Which law describes {phenomenon}?",
			"What is the formula for {concept}?",
			"What happens when {condition}?",
		},
		model.TypeFillBlank: {
			"The unit of {quantity} is ___",
			"The formula for {concept} is ___",
			"According to {law}, ___",
			"The value of {constant} is ___",
		},
		model.TypeCodeCompletion: {
			"Calculate the {physical_quantity} when {given_values}",
			"Solve this physics problem: {problem}",
			"Derive the formula for {concept}",
			"Explain the principle of {phenomenon}",
		},
	},
}

// Templates returns the question templates for (subject, qtype). Unknown
// subjects use the coding set; unknown types use multiple choice.
func Templates(subject string, qtype model.QuestionType) []string {
	bySubject, ok := questionTemplates[strings.ToLower(strings.TrimSpace(subject))]
	if !ok {
		bySubject = questionTemplates[defaultTemplateSubject]
	}
	if t, ok := bySubject[qtype]; ok {
		return t
	}
	return bySubject[model.TypeMultipleChoice]
}
