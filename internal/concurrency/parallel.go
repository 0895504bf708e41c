// Package concurrency reparte trabajo independiente entre un pool acotado
// de goroutines. Lo usamos para rankear varias categorías a la vez y para
// subir los reportes generados en paralelo.
package concurrency

import (
	"context"
	"sync"
)

// ParallelOptions configura el pool de trabajadores.
type ParallelOptions struct {
	// MaxWorkers es el número máximo de goroutines simultáneas.
	MaxWorkers int
}

// DefaultOptions devuelve opciones razonables para cargas chicas,
// como la lista de categorías a rankear.
func DefaultOptions() ParallelOptions {
	return ParallelOptions{
		MaxWorkers: 10,
	}
}

// indexed lleva cada resultado junto con la posición del elemento que
// lo produjo, para poder reconstruir el orden de entrada.
type indexed[R any] struct {
	index  int
	result R
	err    error
}

func clampWorkers(opts ParallelOptions, n int) int {
	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	if maxWorkers > n {
		maxWorkers = n
	}
	return maxWorkers
}

// ProcessParallel aplica itemFunc a cada elemento usando hasta
// opts.MaxWorkers goroutines y devuelve los resultados en el mismo orden
// que la entrada. Los errores se juntan aparte, sin abortar el resto.
// Si el ctx ya viene cancelado los trabajadores no ejecutan nada y los
// resultados quedan en su valor cero.
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	maxWorkers := clampWorkers(opts, len(items))

	jobs := make(chan int, len(items))
	results := make(chan indexed[R], len(items))

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jobIndex := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
					result, err := itemFunc(ctx, jobIndex, items[jobIndex])
					results <- indexed[R]{index: jobIndex, result: result, err: err}
				}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	resultList := make([]R, len(items))
	var errors []error

	for i := 0; i < len(items); i++ {
		res := <-results
		if res.err != nil {
			errors = append(errors, res.err)
		}
		resultList[res.index] = res.result
	}

	return resultList, errors
}

// ForEach ejecuta itemFunc por cada elemento en paralelo cuando solo
// importan los efectos secundarios, por ejemplo subir varios archivos.
func ForEach[T any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) error,
) []error {
	if len(items) == 0 {
		return nil
	}

	maxWorkers := clampWorkers(opts, len(items))

	jobs := make(chan int, len(items))
	errs := make(chan error, len(items))

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jobIndex := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
					if err := itemFunc(ctx, jobIndex, items[jobIndex]); err != nil {
						errs <- err
					}
				}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(errs)

	var errorList []error
	for err := range errs {
		errorList = append(errorList, err)
	}

	return errorList
}
