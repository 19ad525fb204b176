package extractor

// Prompt is the fixed instruction sent with every document.
const Prompt = `Analyze this document. If it is an invoice, extract the invoice total, currency, and date. ` +
	`Also, determine if it looks authentic. ` +
	`Output ONLY a valid JSON object with fields: 'is_invoice', 'total', 'currency', 'date', 'authenticity_score', 'verification_summary'. ` +
	`'is_invoice' is a boolean, 'authenticity_score' is a number between 0 and 1, 'verification_summary' is a short sentence. ` +
	`Use null for 'total', 'currency' and 'date' when the document is not an invoice. ` +
	`Do not wrap the JSON in markdown code fences and do not add any explanation.`
