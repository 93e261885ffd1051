// Package demo holds reference sources used by tests and the demo command.
package demo

// JavaScriptFilename and PythonFilename are the names the samples are
// analyzed under.
const (
	JavaScriptFilename = "order.js"
	PythonFilename     = "pipeline.py"
)

// JavaScript is a two-function order processing module with nested
// conditionals inside a loop.
const JavaScript = `function processOrder(items, user, config, discountRules) {
    if (!items || items.length === 0) return { error: "No items" };
    
    let total = 0;
    let discountApplied = false;
    
    for (const item of items) {
        if (item.price > 100 && user.isPremium) {
            if (discountRules.premiumDiscount > 0) {
                item.finalPrice = item.price * (1 - discountRules.premiumDiscount);
                discountApplied = true;
            } else {
                item.finalPrice = item.price;
            }
        } else if (item.quantity > 10) {
            if (config.bulkEnabled) {
                item.finalPrice = item.price * 0.9;
            } else {
                item.finalPrice = item.price;
            }
        } else {
            item.finalPrice = item.price;
        }
        total += item.finalPrice * item.quantity;
    }
    return { items, total: Math.round(total * 100) / 100 };
}

function validateItem(item) {
    if (!item.name) return false;
    if (item.price <= 0) return false;
    return true;
}`

// Python is a two-function data pipeline with nested loops and conditionals.
const Python = `def process_data_pipeline(raw_data, config, validators, transformers):
    """Process raw data through a configurable pipeline."""
    results = []
    errors = []
    
    for record in raw_data:
        if not record or not isinstance(record, dict):
            errors.append({"error": "Invalid record", "data": record})
            continue
            
        # Validate
        is_valid = True
        for validator in validators:
            if validator.type == "required":
                for field in validator.fields:
                    if field not in record:
                        is_valid = False
                        errors.append({"error": f"Missing {field}", "record": record.get("id")})
                        break
            elif validator.type == "range":
                if record.get(validator.field, 0) < validator.min_val:
                    is_valid = False
                elif record.get(validator.field, 0) > validator.max_val:
                    is_valid = False
        
        if not is_valid:
            continue
            
        # Transform
        for transformer in transformers:
            if transformer.condition and not transformer.condition(record):
                continue
            try:
                record = transformer.apply(record)
            except Exception as e:
                if config.get("strict_mode"):
                    raise
                else:
                    errors.append({"error": str(e), "record": record.get("id")})
                    
        results.append(record)
    
    return {"results": results, "errors": errors, "count": len(results)}

def validate_config(config):
    if not config:
        return False
    if "pipeline_name" not in config:
        return False
    return True`

// Samples maps each sample filename to its source.
var Samples = map[string]string{
	JavaScriptFilename: JavaScript,
	PythonFilename:     Python,
}
